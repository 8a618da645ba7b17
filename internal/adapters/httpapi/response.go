package httpapi

type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func successResponse(data any) Response {
	return Response{Success: true, Data: data}
}

func errorResponse(err string) Response {
	return Response{Success: false, Error: err}
}
