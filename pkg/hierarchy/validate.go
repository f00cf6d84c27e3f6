package hierarchy

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/orgchart/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks p against the schema of its kind.
//
// Struct-level rules (required fields, email and color formats, known kind)
// come from the validate tags; on top of that department and unit ids must be
// unique within the payload and the payload must not be empty. Employee ids
// may repeat across departments; the builder disambiguates them.
func Validate(p *Payload) error {
	if p == nil {
		return errors.New(errors.ErrCodeInvalidPayload, "payload is empty")
	}
	if err := validate.Struct(p); err != nil {
		return fromValidator(err)
	}

	switch p.Kind {
	case KindFlat:
		seen := make(map[string]bool, len(p.Departments))
		for _, d := range p.Departments {
			if seen[d.ID] {
				return errors.New(errors.ErrCodeInvalidPayload, "duplicate department id %q", d.ID)
			}
			seen[d.ID] = true
		}
	case KindDepartments:
		if len(p.Tree) == 0 {
			return errors.New(errors.ErrCodeInvalidPayload, "department tree has no roots")
		}
		if id, dup := duplicateTreeID(p.Tree); dup {
			return errors.New(errors.ErrCodeInvalidPayload, "duplicate department id %q", id)
		}
	case KindHierarchy:
		if len(p.Units) == 0 {
			return errors.New(errors.ErrCodeInvalidPayload, "hierarchy has no units")
		}
		if id, dup := duplicateUnitID(p.Units); dup {
			return errors.New(errors.ErrCodeInvalidPayload, "duplicate unit id %q", id)
		}
	}
	return nil
}

func duplicateTreeID(roots []DepartmentNode) (string, bool) {
	seen := make(map[string]bool)
	var walk func(nodes []DepartmentNode) (string, bool)
	walk = func(nodes []DepartmentNode) (string, bool) {
		for _, n := range nodes {
			if seen[n.ID] {
				return n.ID, true
			}
			seen[n.ID] = true
			if id, dup := walk(n.Children); dup {
				return id, true
			}
		}
		return "", false
	}
	return walk(roots)
}

func duplicateUnitID(roots []Unit) (string, bool) {
	seen := make(map[string]bool)
	var walk func(units []Unit) (string, bool)
	walk = func(units []Unit) (string, bool) {
		for _, u := range units {
			if seen[u.ID] {
				return u.ID, true
			}
			seen[u.ID] = true
			if id, dup := walk(u.Children); dup {
				return id, true
			}
		}
		return "", false
	}
	return walk(roots)
}

// fromValidator converts validator output into one INVALID_PAYLOAD error
// listing every failing field.
func fromValidator(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.ErrCodeInvalidPayload, err, "invalid payload")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	if len(verrs) > 0 && verrs[0].StructField() == "Kind" {
		return errors.New(errors.ErrCodeInvalidKind, "%s", strings.Join(msgs, "; "))
	}
	return errors.New(errors.ErrCodeInvalidPayload, "%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Payload.")
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "email":
		return fmt.Sprintf("%s is not a valid email address", field)
	case "hexcolor":
		return fmt.Sprintf("%s is not a hex color", field)
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}
