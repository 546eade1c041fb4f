package errors

// Code categorizes an error for callers that need to branch on failure kind.
type Code string

// Error codes. Expected rules outcomes (a miss, an ineligible charge) never
// surface as errors at all; these cover contract violations and
// infrastructure failures.
const (
	CodeOK                 Code = "OK"
	CodeNotFound           Code = "NOT_FOUND"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeMissingArgument    Code = "MISSING_ARGUMENT"
	CodeRuleValidation     Code = "RULE_VALIDATION"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeInternal           Code = "INTERNAL"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}
