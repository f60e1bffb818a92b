package dto

type CrearProveedorRequest struct {
	RazonSocial string  `json:"razon_social" validate:"required,min=2"`
	RUT         string  `json:"rut"          validate:"required"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Direccion   *string `json:"direccion"`
}

type ProveedorResponse struct {
	ID          string  `json:"id"`
	RazonSocial string  `json:"razon_social"`
	RUT         string  `json:"rut"`
	Telefono    *string `json:"telefono,omitempty"`
	Email       *string `json:"email,omitempty"`
	Direccion   *string `json:"direccion,omitempty"`
	Activo      bool    `json:"activo"`
}
