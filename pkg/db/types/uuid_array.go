package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UUIDArray maps a uuid[] column to a Go slice using the Postgres array
// literal form. Products use it for category links; the literal also
// round-trips through sqlite, which the tests rely on.
type UUIDArray []uuid.UUID

// Contains reports whether the array carries the given ID.
func (a UUIDArray) Contains(id uuid.UUID) bool {
	for _, candidate := range a {
		if candidate == id {
			return true
		}
	}
	return false
}

func (a UUIDArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	elems := make([]string, len(a))
	for i, id := range a {
		elems[i] = id.String()
	}
	return "{" + strings.Join(elems, ",") + "}", nil
}

func (a *UUIDArray) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = UUIDArray{}
		return nil
	case string:
		return a.decodeLiteral(v)
	case []byte:
		return a.decodeLiteral(string(v))
	}
	return fmt.Errorf("UUIDArray: unsupported Scan type %T", src)
}

func (a *UUIDArray) decodeLiteral(literal string) error {
	body := strings.TrimSpace(literal)
	body = strings.TrimPrefix(body, "{")
	body = strings.TrimSuffix(body, "}")
	if strings.TrimSpace(body) == "" {
		*a = UUIDArray{}
		return nil
	}

	elems := strings.Split(body, ",")
	ids := make([]uuid.UUID, 0, len(elems))
	for _, elem := range elems {
		id, err := uuid.Parse(strings.TrimSpace(strings.Trim(elem, `"`)))
		if err != nil {
			return fmt.Errorf("UUIDArray: parse %q: %w", elem, err)
		}
		ids = append(ids, id)
	}
	*a = ids
	return nil
}
