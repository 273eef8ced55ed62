package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is the shipping address snapshot stored with an order.
// It is persisted as a JSON column.
type Address struct {
	FullName string `json:"full_name"`
	Street   string `json:"street"`
	City     string `json:"city"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

// Validate checks that the mandatory address fields are present
func (a Address) Validate() error {
	if strings.TrimSpace(a.FullName) == "" {
		return fmt.Errorf("address full name is required")
	}
	if strings.TrimSpace(a.Street) == "" {
		return fmt.Errorf("address street is required")
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("address city is required")
	}
	return nil
}

// IsZero reports whether the address is empty
func (a Address) IsZero() bool {
	return a == Address{}
}

// Value implements driver.Valuer for database storage
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
}
