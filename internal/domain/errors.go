package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
)

// InsufficientStockError indica que un débito dejaría la cantidad por debajo de cero.
// Lleva los datos que el caller necesita para explicar el rechazo (nunca se recorta en silencio).
type InsufficientStockError struct {
	ProductID  string
	VariantID  string
	LocationID string
	Current    int64
	Attempted  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en sucursal %s: actual %d, delta %d", e.LocationID, e.Current, e.Attempted)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidTransitionError indica una transición invocada sobre un traslado
// que no está en el estado predecesor requerido.
type InvalidTransitionError struct {
	TransferID string
	Current    string
	Attempted  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("traslado %s: transición a %s inválida desde %s", e.TransferID, e.Attempted, e.Current)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// ConcurrencyConflictError indica que la fila cambió entre la lectura y la escritura.
// La política del caller es reintentar la operación completa, nunca mezclar estado parcial.
type ConcurrencyConflictError struct {
	Resource string
	ID       string
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("conflicto de concurrencia sobre %s %s", e.Resource, e.ID)
}

func (e *ConcurrencyConflictError) Unwrap() error { return ErrConflict }
