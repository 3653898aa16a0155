package providers

import (
	"errors"
	"net/http"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/meguminnnnnnnnn/go-openai"
	"google.golang.org/genai"

	"github.com/ChamsBouzaiene/harvest/internal/engine"
)

// wrapOpenAIError classifies an error returned by the OpenAI SDK.
func wrapOpenAIError(err error) error {
	status, retryAfter := engine.StatusFromMessage(err)

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0:
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0:
		status = reqErr.HTTPStatusCode
	}
	return engine.WrapLLMError(err, status, retryAfter)
}

// anthropicErrStatus maps Anthropic error types to the status the API sends
// with them. The SDK drops the status when it decodes an error body.
var anthropicErrStatus = map[anthropic.ErrType]int{
	anthropic.ErrTypeInvalidRequest: http.StatusBadRequest,
	anthropic.ErrTypeAuthentication: http.StatusUnauthorized,
	anthropic.ErrTypePermission:     http.StatusForbidden,
	anthropic.ErrTypeNotFound:       http.StatusNotFound,
	anthropic.ErrTypeTooLarge:       http.StatusRequestEntityTooLarge,
	anthropic.ErrTypeRateLimit:      http.StatusTooManyRequests,
	anthropic.ErrTypeApi:            http.StatusInternalServerError,
	anthropic.ErrTypeOverloaded:     529,
}

// wrapAnthropicError classifies an error returned by the Anthropic SDK.
func wrapAnthropicError(err error) error {
	status, retryAfter := engine.StatusFromMessage(err)

	var apiErr *anthropic.APIError
	var reqErr *anthropic.RequestError
	switch {
	case errors.As(err, &apiErr):
		if code, ok := anthropicErrStatus[apiErr.Type]; ok {
			status = code
		}
	case errors.As(err, &reqErr) && reqErr.StatusCode > 0:
		status = reqErr.StatusCode
	}
	return engine.WrapLLMError(err, status, retryAfter)
}

// wrapGeminiError classifies an error returned by the genai SDK.
func wrapGeminiError(err error) error {
	status, retryAfter := engine.StatusFromMessage(err)

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Code > 0:
		status = apiErr.Code
	case errors.As(err, &apiErrPtr) && apiErrPtr.Code > 0:
		status = apiErrPtr.Code
	}
	return engine.WrapLLMError(err, status, retryAfter)
}
