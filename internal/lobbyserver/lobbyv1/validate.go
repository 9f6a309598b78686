package lobbyv1

import (
	"encoding/json"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// encoding/json replaces invalid UTF-8 and unpaired surrogate escapes with
// U+FFFD in both directions, so distinct names would reach the lobby as the
// same string. Requests are checked before they are encoded on the client and
// before they are decoded on the server.

// textFields is implemented by every request that carries strings.
type textFields interface {
	textFields() []string
}

func (r *UsernameRequest) textFields() []string   { return []string{r.Username} }
func (r *RoomMemberRequest) textFields() []string { return []string{r.RoomName, r.Username} }
func (r *RoomRequest) textFields() []string       { return []string{r.RoomName} }
func (r *BroadcastRequest) textFields() []string {
	return []string{r.RoomName, r.Username, r.Text}
}
func (r *PrivateMessageRequest) textFields() []string {
	return []string{r.Sender, r.Receiver, r.Text}
}
func (r *ConversationRequest) textFields() []string {
	return []string{r.Username, r.Counterpart}
}
func (r *UploadFileRequest) textFields() []string {
	return []string{r.RoomName, r.Username, r.FileName}
}
func (r *DownloadFileRequest) textFields() []string { return []string{r.RoomName, r.FileName} }

// checkRequest returns an InvalidArgument status if any string field of req
// is not valid UTF-8.
func checkRequest(req any) error {
	tf, ok := req.(textFields)
	if !ok {
		return nil
	}
	for _, s := range tf.textFields() {
		if !utf8.ValidString(s) {
			return status.Errorf(codes.InvalidArgument, "request field %q is not valid UTF-8", s)
		}
	}
	return nil
}

// rawRequest captures a request body verbatim so it can be checked before it
// is decoded.
type rawRequest []byte

func (r *rawRequest) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// decodeRequest checks and decodes a captured request body into in.
func decodeRequest(raw rawRequest, in any) error {
	if !validJSONText(raw) {
		return status.Error(codes.InvalidArgument, "request is not valid UTF-8")
	}
	if err := json.Unmarshal(raw, in); err != nil {
		return status.Errorf(codes.InvalidArgument, "decoding request: %v", err)
	}
	return nil
}

// validJSONText reports whether data is valid UTF-8 with no unpaired
// \uXXXX surrogate escapes. data must already be syntactically valid JSON.
func validJSONText(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' {
			continue
		}
		if i+1 < len(data) && data[i+1] != 'u' {
			i++
			continue
		}
		r, ok := escapedRune(data[i:])
		if !ok {
			return false
		}
		i += 5
		if !utf16.IsSurrogate(r) {
			continue
		}
		if r >= 0xdc00 {
			return false
		}
		low, ok := escapedRune(data[i+1:])
		if !ok || low < 0xdc00 || low > 0xdfff {
			return false
		}
		i += 6
	}
	return true
}

// escapedRune decodes the \uXXXX escape at the start of b.
func escapedRune(b []byte) (rune, bool) {
	if len(b) < 6 || b[0] != '\\' || b[1] != 'u' {
		return 0, false
	}
	v, err := strconv.ParseUint(string(b[2:6]), 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
