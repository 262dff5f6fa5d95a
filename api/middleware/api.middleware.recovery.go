package middleware

import (
	"fmt"

	nuts "github.com/vaudience/go-nuts"
)

// RecoveryLogger routes gorilla/handlers panic reports to the service log
type RecoveryLogger struct{}

func (RecoveryLogger) Println(v ...interface{}) {
	nuts.L.Errorf("[API] recovered from panic: %s", fmt.Sprint(v...))
}
