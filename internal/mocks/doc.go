// Package mocks holds function-field fakes shared by tests across packages.
//
// Each fake mirrors one interface. Set only the fields a test needs; an unset
// field falls back to a neutral default so tests stay short:
//
//	model := &mocks.MockModel{
//	    GenerateTextFn: func(ctx context.Context, req generation.Request) (string, error) {
//	        return "An index fund tracks a market.", nil
//	    },
//	}
//
// Fakes record the requests they receive so tests can assert on the system
// instruction and contents sent to the model.
package mocks
