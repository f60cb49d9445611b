package domain

import "time"

// ServiceCategory is the set of trades workers can offer.
type ServiceCategory string

const (
	CategoryPlumbing        ServiceCategory = "plumbing"
	CategoryElectrical      ServiceCategory = "electrical"
	CategoryCarpentry       ServiceCategory = "carpentry"
	CategoryPainting        ServiceCategory = "painting"
	CategoryCleaning        ServiceCategory = "cleaning"
	CategoryApplianceRepair ServiceCategory = "appliance-repair"
)

// ValidCategory reports whether c is a known service category.
func ValidCategory(c ServiceCategory) bool {
	switch c {
	case CategoryPlumbing, CategoryElectrical, CategoryCarpentry,
		CategoryPainting, CategoryCleaning, CategoryApplianceRepair:
		return true
	}
	return false
}

// CustomerRecord is a customer's directory entry.
// Profile completeness for customers requires a non-empty Address.
type CustomerRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkerRecord is a worker's directory entry.
// Profile completeness for workers requires non-empty Skills and Bio.
type WorkerRecord struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone,omitempty"`
	Skills     []ServiceCategory `json:"skills"`
	Bio        string            `json:"bio,omitempty"`
	HourlyRate float64           `json:"hourly_rate"`
	Rating     float64           `json:"rating"`
	JobsDone   int               `json:"jobs_done"`
	Area       string            `json:"area,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Complete reports whether the customer has supplied the minimum
// profile fields for their role.
func (c *CustomerRecord) Complete() bool {
	return c != nil && c.Address != ""
}

// Complete reports whether the worker has supplied the minimum
// profile fields for their role.
func (w *WorkerRecord) Complete() bool {
	return w != nil && len(w.Skills) > 0 && w.Bio != ""
}

// HasSkill reports whether the worker offers the given category.
func (w *WorkerRecord) HasSkill(c ServiceCategory) bool {
	for _, s := range w.Skills {
		if s == c {
			return true
		}
	}
	return false
}
