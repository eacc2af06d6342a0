package complaint

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryInfrastructure Category = "INFRAESTRUTURA"
	CategoryCleaning       Category = "LIMPEZA"
	CategorySecurity       Category = "SEGURANCA"
	CategoryConvenience    Category = "CONVENIENCIA"
	CategoryAdministrative Category = "ADMINISTRATIVO"
	CategoryOther          Category = "OUTROS"
)

var categorySet = map[Category]struct{}{
	CategoryInfrastructure: {},
	CategoryCleaning:       {},
	CategorySecurity:       {},
	CategoryConvenience:    {},
	CategoryAdministrative: {},
	CategoryOther:          {},
}

func Categories() []Category {
	return []Category{
		CategoryInfrastructure,
		CategoryCleaning,
		CategorySecurity,
		CategoryConvenience,
		CategoryAdministrative,
		CategoryOther,
	}
}

func ParseCategory(raw string) (Category, error) {
	candidate := Category(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := categorySet[candidate]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
	return candidate, nil
}

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	_, ok := categorySet[c]
	return ok
}
