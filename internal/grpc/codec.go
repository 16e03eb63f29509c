package grpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

var errBadRequest = errors.New("malformed request")

// decode copies a Struct request into dest through its JSON form.
func decode(req *structpb.Struct, dest any) error {
	if req == nil {
		return nil
	}
	data, err := json.Marshal(req.AsMap())
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// encode turns a JSON-tagged value into a Struct response.
func encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

type navigateRequest struct {
	Path string `json:"path"`
}

type navigateResponse struct {
	Path string `json:"path"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type toiletTypeRequest struct {
	ToiletType string `json:"toiletType"`
}

type actionMessageRequest struct {
	Message string `json:"message"`
}

// reportUpdateRequest carries only the selectors to change. An empty
// washroom clears the selection.
type reportUpdateRequest struct {
	DateType   *string `json:"dateType"`
	Date       *string `json:"date"`
	Washroom   *string `json:"washroom"`
	ReportType *string `json:"reportType"`
}

type reportQueryRequest struct {
	DateType   string `json:"dateType"`
	Date       string `json:"date"`
	Washroom   string `json:"washroom"`
	ReportType string `json:"reportType"`
}

type listActivityRequest struct {
	Limit int `json:"limit"`
}
