// internal/websocket/utils.go
package websocket

import "encoding/json"

// DecodeData converts the loosely typed data of a frame into target.
// Absent data leaves target untouched.
func DecodeData(data interface{}, target interface{}) error {
	if data == nil {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}
