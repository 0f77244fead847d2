package student

import (
	"fmt"
	"strconv"
	"strings"
)

const CodePrefix = "STU"

// FormatCode builds the human facing code of a student: STU{class}{roll:03d}.
// Rolls above 999 simply grow past three digits.
func FormatCode(class, roll int) string {
	return fmt.Sprintf("%s%d%03d", CodePrefix, class, roll)
}

func classPrefix(class int) string {
	return CodePrefix + strconv.Itoa(class)
}

// ExtractRoll returns the roll number encoded in code for the given class.
// ok is false when code does not carry the class prefix followed by digits only.
func ExtractRoll(code string, class int) (roll int, ok bool) {
	prefix := classPrefix(class)
	if !strings.HasPrefix(code, prefix) {
		return 0, false
	}
	suffix := code[len(prefix):]
	if suffix == "" {
		return 0, false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	roll, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return roll, true
}

// NextRoll returns max(roll)+1 over the codes belonging to class, or 1 for an empty class.
func NextRoll(codes []string, class int) int {
	var max int
	for _, code := range codes {
		if roll, ok := ExtractRoll(code, class); ok && roll > max {
			max = roll
		}
	}
	return max + 1
}
