package service

import "errors"

var (
	ErrPermissionDenied    = errors.New("permission denied")
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("conflict")
	ErrIllegalTransition   = errors.New("illegal status transition")
	ErrViagemBloqueada     = errors.New("trip manifest can only change while planned")
	ErrPassageiroDuplicado = errors.New("processo already allocated to this trip")
	ErrSemLeitos           = errors.New("no beds available")
)
