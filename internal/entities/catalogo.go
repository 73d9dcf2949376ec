package entities

import (
	"fmt"
	"strings"

	"staffing-system/pkg/types"

	"github.com/aarondl/null/v8"
)

// Catalog entities carry their own validate tags: the HTTP body binds
// straight into them.

type Camarero struct {
	ID        string      `json:"id"`
	Nombre    string      `json:"nombre" validate:"required,max=100"`
	Apellidos string      `json:"apellidos" validate:"max=150"`
	Numero    string      `json:"numero" validate:"max=20"`
	Telefono  string      `json:"telefono" validate:"required,telefono"`
	Email     null.String `json:"email" validate:"omitempty,email"`
	Activo    bool        `json:"activo"`

	types.BaseEntity
}

func (c *Camarero) EntityID() string    { return c.ID }
func (c *Camarero) SetID(id string)     { c.ID = id }
func (c *Camarero) Validate() error     { return requireID(c.ID) }
func (c *Camarero) DisplayName() string { return joinName(c.Nombre, c.Apellidos) }
func (c *Camarero) Base() *types.BaseEntity {
	return &c.BaseEntity
}

type Coordinador struct {
	ID       string      `json:"id"`
	Nombre   string      `json:"nombre" validate:"required,max=100"`
	Telefono string      `json:"telefono" validate:"omitempty,telefono"`
	Email    null.String `json:"email" validate:"omitempty,email"`
	Activo   bool        `json:"activo"`

	types.BaseEntity
}

func (c *Coordinador) EntityID() string { return c.ID }
func (c *Coordinador) SetID(id string)  { c.ID = id }
func (c *Coordinador) Validate() error  { return requireID(c.ID) }
func (c *Coordinador) Base() *types.BaseEntity {
	return &c.BaseEntity
}

type Cliente struct {
	ID        string      `json:"id"`
	Nombre    string      `json:"nombre" validate:"required,max=200"`
	Contacto  string      `json:"contacto" validate:"max=200"`
	Telefono  string      `json:"telefono" validate:"omitempty,telefono"`
	Email     null.String `json:"email" validate:"omitempty,email"`
	Direccion string      `json:"direccion" validate:"max=300"`
	Activo    bool        `json:"activo"`

	types.BaseEntity
}

func (c *Cliente) EntityID() string { return c.ID }
func (c *Cliente) SetID(id string)  { c.ID = id }
func (c *Cliente) Validate() error  { return requireID(c.ID) }
func (c *Cliente) Base() *types.BaseEntity {
	return &c.BaseEntity
}

func requireID(id string) error {
	if id == "" {
		return fmt.Errorf("registro sin id")
	}
	return nil
}

func joinName(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
