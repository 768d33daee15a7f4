package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// LineItems is a JSONB-backed slice of line items.
type LineItems []LineItem

// Value implements driver.Valuer for JSONB storage.
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		l = LineItems{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB storage.
func (l *LineItems) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// Flags is a JSONB-backed slice of flag strings (policy flags plus the
// fraud flag). Empty exactly when no policy rule and no fraud signal fired.
type Flags []string

// Value implements driver.Valuer for JSONB storage.
func (f Flags) Value() (driver.Value, error) {
	if f == nil {
		f = Flags{}
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB storage.
func (f *Flags) Scan(src interface{}) error {
	return scanJSON(src, f)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported scan type %T", src)
	}
}
