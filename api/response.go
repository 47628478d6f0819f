package api

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// Client error codes.
const (
	codeValidation    = "VALIDATION_ERROR"
	codeNotFound      = "NOT_FOUND"
	codeInvalidCursor = "INVALID_CURSOR"
)

// errorEnvelope is the client-error body, {"error":{"code","message"}}.
type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// serverEnvelope is the server-error body, {"error":"message"}. The shape
// differs from errorEnvelope on purpose; both are part of the API contract.
type serverEnvelope struct {
	Error string `json:"error"`
}

// corsHeaders returns the permissive cross-origin header set carried by
// every response.
func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
	}
}

// jsonHeaders returns corsHeaders plus the JSON content type.
func jsonHeaders() map[string]string {
	h := corsHeaders()
	h["Content-Type"] = "application/json"
	return h
}

// respond renders v as a JSON response.
func respond(status int, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		return serverError(err)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    jsonHeaders(),
		Body:       string(body),
	}
}

// clientError renders a 4xx response with the error envelope.
func clientError(status int, code, message string) events.APIGatewayProxyResponse {
	return respond(status, errorEnvelope{Error: errorDetail{Code: code, Message: message}})
}

// notFound renders the 404 every missing-product path shares.
func notFound() events.APIGatewayProxyResponse {
	return clientError(http.StatusNotFound, codeNotFound, "Product not found")
}

// serverError renders a 500 carrying the underlying failure's message.
func serverError(err error) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(serverEnvelope{Error: err.Error()})
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Headers:    jsonHeaders(),
		Body:       string(body),
	}
}

// noContent renders the empty 204 delete response. No Content-Type header;
// there is no body.
func noContent() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusNoContent,
		Headers:    corsHeaders(),
	}
}
