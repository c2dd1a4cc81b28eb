// Package apperr は全サービス共通のエラー分類とHTTP変換。
package apperr

import (
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeUnknownLoanType Code = "UNKNOWN_LOAN_TYPE"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeInternal        Code = "INTERNAL"
)

// APIError はサービス層が返す分類済みエラー。ハンドラはこれをHTTPに写す。
type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func ErrInvalid(msg string) *APIError {
	return &APIError{Code: CodeInvalidArgument, Message: msg}
}

func ErrNotFound(msg string) *APIError {
	return &APIError{Code: CodeNotFound, Message: msg}
}

func ErrConflict(msg string) *APIError {
	return &APIError{Code: CodeConflict, Message: msg}
}

func ErrUnknownLoanType(loanType int) *APIError {
	return &APIError{Code: CodeUnknownLoanType, Message: fmt.Sprintf("unknown loan type: %d", loanType)}
}

func ErrUnauthorized(msg string) *APIError {
	return &APIError{Code: CodeUnauthorized, Message: msg}
}

func ErrForbidden(msg string) *APIError {
	return &APIError{Code: CodeForbidden, Message: msg}
}

func ErrInternal(msg string) *APIError {
	return &APIError{Code: CodeInternal, Message: msg}
}

// ToHTTPStatus: 分類不能なエラーは500に落とす。
func ToHTTPStatus(err error) int {
	apiErr, ok := err.(*APIError)
	if !ok {
		return http.StatusInternalServerError
	}
	switch apiErr.Code {
	case CodeInvalidArgument, CodeUnknownLoanType:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

type ErrorBody struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// ErrorDTO はエラーレスポンスのJSON形。
type ErrorDTO struct {
	Error ErrorBody `json:"error"`
}

func Body(code Code, msg string) ErrorDTO {
	return ErrorDTO{Error: ErrorBody{Code: code, Message: msg}}
}

// From は内部メッセージをそのまま外に出さない。分類済みのものだけ通す。
func From(err error) ErrorDTO {
	if apiErr, ok := err.(*APIError); ok {
		return Body(apiErr.Code, apiErr.Message)
	}
	return Body(CodeInternal, "an internal error occurred")
}
