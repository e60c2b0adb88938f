// Package calculator evaluates the arithmetic fragment of a query.
package calculator

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"
)

var (
	// ErrEmptyExpression is returned when there is nothing to evaluate.
	ErrEmptyExpression = errors.New("empty expression")
	// ErrUnsupported is returned for input that is not plain arithmetic.
	ErrUnsupported = errors.New("only numbers and + - * / % ( ) are supported")
	// ErrNotFinite is returned for division by zero and overflow.
	ErrNotFinite = errors.New("result is not a finite number")
)

var (
	arithmeticOnly = regexp.MustCompile(`^[\d+\-*/%().\s]+$`)
	numberLiteral  = regexp.MustCompile(`\d+\.\d+|\d+\.|\.\d+|\d+`)
)

// compileOptions evaluate everything in float64. expr's % only takes
// integers, so it is routed to math.Mod.
var compileOptions = []expr.Option{
	expr.AsFloat64(),
	expr.DisableAllBuiltins(),
	expr.Function("fmod", func(params ...any) (any, error) {
		return math.Mod(params[0].(float64), params[1].(float64)), nil
	}, new(func(float64, float64) float64)),
	expr.Operator("%", "fmod"),
}

// Evaluate computes an arithmetic expression and returns its printed value.
// Integral results print without a decimal point.
func Evaluate(expression string) (string, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return "", ErrEmptyExpression
	}
	if !arithmeticOnly.MatchString(expression) {
		return "", ErrUnsupported
	}

	program, err := expr.Compile(floatLiterals(expression), compileOptions...)
	if err != nil {
		return "", fmt.Errorf("parse: %w", conciseError(err))
	}
	out, err := expr.Run(program, nil)
	if err != nil {
		return "", conciseError(err)
	}

	v, ok := out.(float64)
	if !ok {
		return "", fmt.Errorf("unexpected result type %T", out)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "", ErrNotFinite
	}
	return format(v), nil
}

// Describe evaluates expression and renders the outcome as a sentence
// suitable for the composed context. Failures are described, not returned.
func Describe(expression string) string {
	expression = strings.TrimSpace(expression)
	value, err := Evaluate(expression)
	if err != nil {
		return fmt.Sprintf("Error calculating %s: %v", expression, err)
	}
	return fmt.Sprintf("The result of %s is %s", expression, value)
}

// floatLiterals rewrites every number as a float literal, so mixed operands
// never hit integer-only rules and long digit runs do not overflow int.
func floatLiterals(expression string) string {
	return numberLiteral.ReplaceAllStringFunc(expression, func(lit string) string {
		switch {
		case strings.HasPrefix(lit, "."):
			return "0" + lit
		case strings.HasSuffix(lit, "."):
			return lit + "0"
		case !strings.Contains(lit, "."):
			return lit + ".0"
		}
		return lit
	})
}

// conciseError drops the source echo and caret expr appends to its messages.
func conciseError(err error) error {
	var fileErr *file.Error
	if errors.As(err, &fileErr) && fileErr.Message != "" {
		return errors.New(fileErr.Message)
	}
	return err
}

func format(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
