package gateway

import (
	"fmt"
	"strings"
)

// APIError is a non-2xx response from the GitHub REST API, translated at the
// gateway boundary so callers never see transport-library error types.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api error: %s", e.Status)
}

// GraphQLError is a GraphQL response carrying an errors array, which GitHub
// delivers with HTTP 200.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("github graphql error: %s", strings.Join(e.Messages, "; "))
}
