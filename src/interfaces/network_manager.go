package interfaces

// -----------------------------------------------------------------------------
// INetworkManager defines the contract for HTTP requests with retry logic.
// -----------------------------------------------------------------------------

type INetworkManager interface {

	// -----------------------------------------------------------------------------

	// Get performs a GET request to the specified URL with parameters.
	// Returns the response body as bytes or an error.
	Get(url string, params map[string]string) ([]byte, error)

	// -----------------------------------------------------------------------------

	// Post performs a single POST request with the given body and content type.
	Post(url string, body []byte, contentType string) ([]byte, error)
}
