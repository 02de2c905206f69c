package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"agroprod/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of the
// wrapped error when it has one.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the code of the outermost AppError in the chain. Domain
// errors without an AppError are classified by their sentinel.
func GetCode(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case stderrors.Is(err, core.ErrUnsupportedFormat):
		return CodeUnsupportedFormat
	case stderrors.Is(err, core.ErrParseFailure):
		return CodeParseFailure
	case stderrors.Is(err, core.ErrMissingColumn):
		return CodeMissingColumn
	case stderrors.Is(err, core.ErrEmptyDataset):
		return CodeEmptyDataset
	case stderrors.Is(err, core.ErrJoinIntegrity):
		return CodeIntegrityError
	case stderrors.Is(err, core.ErrNoDataset):
		return CodeNotFound
	default:
		return CodeInternalError
	}
}

// Predefined error codes
const (
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeParseFailure      = "PARSE_FAILURE"
	CodeMissingColumn     = "MISSING_COLUMN"
	CodeEmptyDataset      = "EMPTY_DATASET"
	CodeIntegrityError    = "INTEGRITY_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeNotFound          = "NOT_FOUND"
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// UserMessage renders err as the Portuguese message shown on the dashboard.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch GetCode(err) {
	case CodeUnsupportedFormat:
		return "Formato de arquivo não suportado. Envie um arquivo .csv, .xls, .xlsx, .html ou .json."
	case CodeParseFailure:
		switch {
		case stderrors.Is(err, core.ErrNoTable):
			return "Nenhuma tabela encontrada no arquivo HTML."
		case stderrors.Is(err, core.ErrNoHeader):
			return "O arquivo não contém cabeçalho."
		}
		return "Não foi possível ler o arquivo. Verifique se o conteúdo corresponde à extensão e se o arquivo não está corrompido."
	case CodeMissingColumn:
		return fmt.Sprintf("Colunas obrigatórias ausentes: %s.", strings.Join(core.MissingColumns(err), ", "))
	case CodeEmptyDataset:
		return "O arquivo não contém registros."
	case CodeIntegrityError:
		return "Inconsistência ao combinar as agregações do conjunto de dados."
	case CodeInvalidInput:
		var appErr *AppError
		if stderrors.As(err, &appErr) {
			return appErr.Message
		}
		return "Requisição inválida."
	case CodeNotFound:
		return "Nenhum conjunto de dados carregado."
	default:
		return "Erro interno ao processar o arquivo."
	}
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch GetCode(err) {
	case CodeUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case CodeParseFailure, CodeMissingColumn, CodeEmptyDataset:
		return http.StatusUnprocessableEntity
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
