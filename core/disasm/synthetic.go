package disasm

import "regexp"

// syntheticPatterns are the regex heuristics used to filter
// artificial/synthetic constructs that are never real API: bridge
// methods, generated inner-class accessors, class$ helpers, and synthetic
// field accessors the compiler emits for private-member access across
// nested classes.
var syntheticPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^access\$\d+$`),      // synthetic field/method accessor
	regexp.MustCompile(`^class\$`),             // class$ literal helper (pre-invokedynamic javac)
	regexp.MustCompile(`\$\d+$`),               // bridge/synthetic numeric suffix
	regexp.MustCompile(`^lambda\$`),            // lambda body desugaring
	regexp.MustCompile(`^this\$\d+$`),          // synthetic outer-class reference field
	regexp.MustCompile(`^val\$`),               // synthetic captured-local field
}

// IsSyntheticName reports whether name (a short method or field name)
// matches one of the synthetic-construct heuristics.
func IsSyntheticName(name string) bool {
	for _, re := range syntheticPatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// dollarDigitPattern matches a simple class name containing a dollar sign
// followed by a digit — the same anonymous/local-class filter the archive
// ingestor applies, reused here since the disassembler may also need to
// skip member records belonging to such classes if fed one in error.
var dollarDigitPattern = regexp.MustCompile(`\$\d`)

// IsAnonymousOrLocalClassName reports whether simpleName contains a dollar
// sign immediately followed by a digit.
func IsAnonymousOrLocalClassName(simpleName string) bool {
	return dollarDigitPattern.MatchString(simpleName)
}
