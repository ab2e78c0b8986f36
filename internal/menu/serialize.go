package menu

import (
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/megamenu/internal/errors"
)

// DefaultConstName is the exported constant name used when serializing a menu
// back into source-text form and when recovering one from it.
const DefaultConstName = "menuData"

// Serialize renders the menu as the source-text declaration format the
// document store holds ("export const <name> = {...};"). The administrative
// upload path writes this format so the existing authoring workflow keeps
// working on the stored file.
func Serialize(m *MenuData, constName string) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	if constName == "" {
		constName = DefaultConstName
	}
	body, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryValidation, errors.SeverityError, "failed to serialize menu data")
	}
	return fmt.Sprintf("export const %s = %s;\n", constName, body), nil
}
