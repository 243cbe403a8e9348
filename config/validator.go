package config

import "github.com/KOMKZ/go-yogan-listener/validator"

// Section is a named part of the configuration that validates itself
type Section struct {
	Name  string
	Value validator.Validatable
}

// ValidateAll validates sections in order and returns the first failure as a layered error
func ValidateAll(sections ...Section) error {
	for _, s := range sections {
		if err := validator.ValidateStruct(s.Name, s.Value); err != nil {
			return err
		}
	}
	return nil
}
