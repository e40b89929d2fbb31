package entity

import (
	"bytes"
	"errors"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrPayloadNotObject is returned for scanned data that is valid JSON but not an object
var ErrPayloadNotObject = errors.New("qr payload is not a JSON object")

// QRPayload is the structured content of a scanned QR code
type QRPayload struct {
	QRCodeID string `json:"qrCodeId"`
}

// DecodeQRPayload parses raw scanned data. Only a JSON object is accepted; a
// missing qrCodeId is left empty for the remote service to judge.
func DecodeQRPayload(raw string) (*QRPayload, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || data[0] != '{' {
		return nil, ErrPayloadNotObject
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	p := &QRPayload{}
	switch v := fields["qrCodeId"].(type) {
	case string:
		p.QRCodeID = v
	case float64:
		p.QRCodeID = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return p, nil
}
