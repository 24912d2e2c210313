// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

// Package respond provides HTTP response helpers for the app shell.
//
// # Architecture
//
// Every shell response (success or error) follows one predictable JSON
// envelope, so the thin rendering layer on top can parse it blindly.
package respond

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/pharmora/client/internal/platform/apperr"
)

// SuccessEnvelope is the JSON envelope for successful responses.
type SuccessEnvelope struct {
	Data interface{} `json:"data"`
}

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`

	// Redirect carries the guard's follow-up target on 403 responses.
	Redirect string `json:"redirect,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the standard envelope.
func OK(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// Created writes a 201 Created response with data wrapped in the standard envelope.
func Created(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error converts any Go error into a standardized JSON error response.
func Error(writer http.ResponseWriter, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		appError = &apperr.AppError{Code: apperr.CodeServer, Message: "Unexpected error"}
	}

	JSON(writer, shellStatus(appError), ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}

// Forbidden writes the guard's 403 notice with its redirect target.
func Forbidden(writer http.ResponseWriter, redirect string) {
	JSON(writer, http.StatusForbidden, ErrorEnvelope{
		Error:    "You do not have access to this page",
		Code:     apperr.CodeForbidden,
		Redirect: redirect,
	})
}

// shellStatus maps the client error taxonomy to a shell HTTP status.
// Client-local failures carry no backend status, so the code decides.
func shellStatus(appError *apperr.AppError) int {
	switch appError.Code {
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeUnauthenticated, apperr.CodeSessionExpired:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeConflict:
		return http.StatusConflict
	case apperr.CodeTransport:
		return http.StatusServiceUnavailable
	default:
		if appError.Status >= http.StatusBadRequest {
			return appError.Status
		}
		return http.StatusInternalServerError
	}
}
