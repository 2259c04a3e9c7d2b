// Package crud_sdk bootstraps a crud.Client from the environment or from a
// YAML config file. The runtime mode decides whether the client talks to the
// remote service over HTTP or to an in-memory mock:
//
//	CRUD_RUNTIME_MODE  auto (default), http or mock
//	CRUD_API_KEY       value sent as x-api-key
//	CRUD_API_URL       base URL of the service
//	CRUD_MOCK_SEED     seed file (YAML or JSON) loaded in mock mode
//	CRUD_LOG_LEVEL     enables client logging on stderr at the given level
//
// In auto mode the HTTP client is used when both CRUD_API_KEY and
// CRUD_API_URL are set; otherwise the mock is returned. The mock stays API
// compatible with the HTTP client, so application code does not change
// between modes.
package crud_sdk
