package lobby

import (
	"bytes"
	"encoding/hex"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/crypto/blake2b"
)

// FileRecord is a binary blob shared into a room.
type FileRecord struct {
	ID          string
	RoomName    string
	FileName    string
	Uploader    string
	ContentType string
	// Checksum is the hex BLAKE2b-256 digest of Data.
	Checksum   string
	Data       []byte
	UploadedAt time.Time
}

// FileInfo describes a FileRecord without its contents.
type FileInfo struct {
	ID          string
	FileName    string
	Uploader    string
	ContentType string
	Size        int64
	Checksum    string
	UploadedAt  time.Time
}

func newFileRecord(roomName, uploader, fileName string, data []byte, now time.Time) FileRecord {
	sum := blake2b.Sum256(data)
	return FileRecord{
		ID:          uuid.New().String(),
		RoomName:    roomName,
		FileName:    fileName,
		Uploader:    uploader,
		ContentType: mimetype.Detect(data).String(),
		Checksum:    hex.EncodeToString(sum[:]),
		Data:        bytes.Clone(data),
		UploadedAt:  now,
	}
}

func (f FileRecord) info() FileInfo {
	return FileInfo{
		ID:          f.ID,
		FileName:    f.FileName,
		Uploader:    f.Uploader,
		ContentType: f.ContentType,
		Size:        int64(len(f.Data)),
		Checksum:    f.Checksum,
		UploadedAt:  f.UploadedAt,
	}
}

// fileStore keeps uploaded files per room in upload order. File names are not
// unique; lookups by name return the earliest upload.
type fileStore struct {
	byRoom map[string][]FileRecord
}

func newFileStore() *fileStore {
	return &fileStore{byRoom: make(map[string][]FileRecord)}
}

func (s *fileStore) add(rec FileRecord) {
	s.byRoom[rec.RoomName] = append(s.byRoom[rec.RoomName], rec)
}

func (s *fileStore) names(roomName string) []string {
	return lo.Map(s.byRoom[roomName], func(f FileRecord, _ int) string {
		return f.FileName
	})
}

func (s *fileStore) infos(roomName string) []FileInfo {
	return lo.Map(s.byRoom[roomName], func(f FileRecord, _ int) FileInfo {
		return f.info()
	})
}

// first returns the earliest upload named fileName in roomName.
//
// Postcondition: The returned record's Data is a private copy. ok is false if
// the room has no such file.
func (s *fileStore) first(roomName, fileName string) (FileRecord, bool) {
	rec, ok := lo.Find(s.byRoom[roomName], func(f FileRecord) bool {
		return f.FileName == fileName
	})
	if !ok {
		return FileRecord{}, false
	}
	rec.Data = bytes.Clone(rec.Data)
	if rec.Data == nil {
		rec.Data = []byte{}
	}
	return rec, true
}

// purge drops every file of roomName and reports how many were removed.
func (s *fileStore) purge(roomName string) int {
	n := len(s.byRoom[roomName])
	delete(s.byRoom, roomName)
	return n
}

func (s *fileStore) count() int {
	return lo.SumBy(lo.Values(s.byRoom), func(files []FileRecord) int {
		return len(files)
	})
}
