package persist

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// formatValidationError turns a validator.ValidationErrors into a single
// readable message naming every offending field, the same flattening
// dd0wney-graphdb's pkg/validation/validator.go does for its API requests.
func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.WithStack(err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
	}
	return errors.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

// ValidateDocument runs both the struct-tag validation and the manual
// cross-reference checks a struct tag can't express: every wire's tab and
// junction references must resolve to something declared on the same page,
// and every entity id in the document must be unique. This runs before
// assemble builds the live Document, so a malformed file is rejected
// before construction starts. Struct-tag failures are joined into one
// message; the cross-reference checks return the first failure they find.
func ValidateDocument(schema *documentSchema) error {
	if schema == nil {
		return errors.New("document is nil")
	}
	if err := validate.Struct(schema); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]struct{})
	dup := func(kind, id string) error {
		if _, ok := seen[id]; ok {
			return errors.Errorf("duplicate identifier %q (%s)", id, kind)
		}
		seen[id] = struct{}{}
		return nil
	}

	for _, page := range schema.Pages {
		if err := dup("page", page.ID); err != nil {
			return err
		}

		tabs := make(map[string]struct{})
		junctions := make(map[string]struct{})
		for _, c := range page.Components {
			if err := dup("component", c.ID); err != nil {
				return err
			}
			for _, p := range c.Pins {
				if err := dup("pin", p.ID); err != nil {
					return err
				}
				for _, t := range p.Tabs {
					if err := dup("tab", t.ID); err != nil {
						return err
					}
					tabs[t.ID] = struct{}{}
				}
			}
		}
		for _, j := range page.Junctions {
			if err := dup("junction", j.ID); err != nil {
				return err
			}
			junctions[j.ID] = struct{}{}
		}
		for _, wp := range page.Waypoints {
			if err := dup("waypoint", wp.ID); err != nil {
				return err
			}
		}

		for _, w := range page.Wires {
			if err := dup("wire", w.ID); err != nil {
				return err
			}
			if _, ok := tabs[w.StartTab]; !ok {
				return errors.Errorf("wire %q references unknown start tab %q", w.ID, w.StartTab)
			}
			if w.EndTab != "" {
				if _, ok := tabs[w.EndTab]; !ok {
					return errors.Errorf("wire %q references unknown end tab %q", w.ID, w.EndTab)
				}
			}
			for _, j := range w.Junctions {
				if _, ok := junctions[j]; !ok {
					return errors.Errorf("wire %q references unknown junction %q", w.ID, j)
				}
			}
		}
	}

	return nil
}
