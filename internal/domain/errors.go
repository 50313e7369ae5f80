package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrInvalidStateTransition = errors.New("transición de estado no permitida")
	ErrLastOwner              = errors.New("la empresa debe conservar al menos un OWNER activo")
	ErrServiceUnavailable     = errors.New("servicio externo no disponible")
	ErrStorageInconsistent    = errors.New("inconsistencia entre registro y objeto almacenado")
)
