package domain

import "warrior-server/pkg/logger"

// Strict включается в тестах: нарушение инварианта становится паникой.
// В рабочем процессе нарушение только логируется.
var Strict = false

// Assert возвращает ok. При ok == false логирует msg, а в Strict режиме паникует.
func Assert(ok bool, msg string) bool {
	if ok {
		return true
	}
	if Strict {
		panic("invariant violated: " + msg)
	}
	logger.For("domain").Error("invariant violated: " + msg)
	return false
}
