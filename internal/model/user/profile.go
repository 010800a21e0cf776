package user

// WeightUnit enumerates the supported weight units.
type WeightUnit string

const (
	Kilograms WeightUnit = "kg"
	Pounds    WeightUnit = "lb"
)

// Valid reports whether the unit is one of the supported values.
func (u WeightUnit) Valid() bool {
	return u == Kilograms || u == Pounds
}

// Profile captures the user attributes exposed to the frontend. Email is the
// natural key; optional fields stay null until the user fills them in.
type Profile struct {
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	Birthday   *string     `json:"birthday"`
	Weight     *float64    `json:"weight"`
	WeightUnit *WeightUnit `json:"weight_unit"`
	Gender     *string     `json:"gender"`
}
