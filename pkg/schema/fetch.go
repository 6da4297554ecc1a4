package schema

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/httputil"
)

// IntrospectionQuery selects what the loader reads: root operation names,
// and for each type its kind, name, fields and input fields with type
// references unwrapped up to seven levels.
const IntrospectionQuery = `query SchemamapIntrospection {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types {
      kind
      name
      description
      fields(includeDeprecated: true) { name type { ...Ref } }
      inputFields { name type { ...Ref } }
    }
  }
}

fragment Ref on __Type {
  kind name
  ofType { kind name
    ofType { kind name
      ofType { kind name
        ofType { kind name
          ofType { kind name
            ofType { kind name
              ofType { kind name }
            }
          }
        }
      }
    }
  }
}`

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type fetchResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// IsEndpoint reports whether arg names an HTTP endpoint rather than a file.
func IsEndpoint(arg string) bool {
	return strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://")
}

// Fetch runs the introspection query against a GraphQL endpoint.
// A nil client uses [httputil.NewClient] defaults.
func Fetch(ctx context.Context, endpoint string, client *httputil.Client) (*Schema, error) {
	if client == nil {
		client = httputil.NewClient()
	}

	var resp fetchResponse
	if err := client.PostJSON(ctx, endpoint, graphQLRequest{Query: IntrospectionQuery}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return nil, errors.New(errors.ErrCodeInvalidSchema, "introspection of %s failed: %s", endpoint, strings.Join(msgs, "; "))
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, errors.New(errors.ErrCodeInvalidSchema, "introspection of %s returned no data", endpoint)
	}
	return ParseIntrospectionBytes(resp.Data)
}
