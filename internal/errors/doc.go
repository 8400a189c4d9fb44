// Package errors provides coded, actionable error messages for bsconf.
//
// Every failure the tool can report has a registered code (for example
// "E101") that maps to a category, a short message and a longer detail.
// Errors may carry a source location inside a config file, a hint on how
// to fix the problem, and the underlying error for errors.Is/As.
//
// # Codes
//
//   - E100-E119: configuration loading and saving
//   - E200-E219: command line usage
//   - E300-E319: pattern and address diagnostics
//
// # Usage
//
//	err := errors.New("E102").
//	    WithLocation("bs-config.json", 4, 5).
//	    WithSuggestion("Recognized keys are proxy, files and watchOptions")
//
//	fmt.Print(err.Format())
//	// Output:
//	// ERROR E102: Unknown configuration key
//	//
//	//   bs-config.json:4:5
//	//   ...
package errors
