package disasm

import (
	"regexp"
	"strings"

	"github.com/lvc/japi-compliance-checker/core/usage"
)

// invokeCommentPattern matches an invoke* bytecode instruction's trailing
// constant-pool comment, e.g.
// "   3: invokevirtual #4  // Method java/lang/Object.toString:()Ljava/lang/String;"
var invokeCommentPattern = regexp.MustCompile(`invoke\w+\s+#\d+.*//\s*(Method|InterfaceMethod)\s+([\w/$]+)\.([\w$<>]+):(\([^)]*\)\S*)`)

func isInvokeInstruction(line string) bool {
	return strings.Contains(line, "invoke") && strings.Contains(line, "//")
}

// recordInvoke parses an invoke* instruction comment and, unless the
// target is filtered (java.lang/util/io, or <init>), queues a
// pendingInvocation for post-parse resolution.
func (p *Parser) recordInvoke(line string) {
	if p.curMethod == nil {
		return
	}
	m := invokeCommentPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	targetClass, methodName, paramDesc := m[2], m[3], m[4]

	if usage.ShouldIgnoreInvocation(targetClass, methodName) {
		return
	}

	descriptor := targetClass + "." + methodName + ":" + paramDesc
	p.pending = append(p.pending, pendingInvocation{
		caller:      p.curMethod.ID,
		targetClass: strings.ReplaceAll(targetClass, "/", "."),
		methodName:  methodName,
		descriptor:  descriptor,
	})
}
