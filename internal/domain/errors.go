package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrPredictionFailed agrupa cualquier fallo del servicio externo de predicción:
	// red, estado HTTP no exitoso o cuerpo de respuesta inválido.
	ErrPredictionFailed = errors.New("la solicitud de predicción falló")
	ErrBusy             = errors.New("ya hay una predicción en curso")
	ErrUnknownField     = errors.New("campo de perfil desconocido")
	ErrNoResult         = errors.New("no hay resultado de predicción")
	ErrHistoryDisabled  = errors.New("el historial de predicciones está deshabilitado")
	ErrInvalidInput     = errors.New("entrada inválida")
)
