package http

// Result es el sobre uniforme de todas las respuestas: exito y error
// comparten la misma forma para que el cliente decodifique una sola vez.
type Result struct {
	Data   any      `json:"data"`
	Errors []string `json:"errors"`
}

func okResult(data any) Result {
	return Result{Data: data, Errors: []string{}}
}

func errResult(messages ...string) Result {
	return Result{Data: nil, Errors: messages}
}

const internalErrorMessage = "internal server failure"
