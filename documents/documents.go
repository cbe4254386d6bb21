package documents

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/jrsteele09/squadhub/apiclient"
	apperrors "github.com/jrsteele09/squadhub/internal/errors"
)

const documentsPath = "documents/"

// OtherType groups documents the backend did not classify.
const OtherType = "FILE"

type Document struct {
	ID                int64   `json:"id"`
	Title             string  `json:"title"`
	File              string  `json:"file"`
	UploadedBy        int64   `json:"uploaded_by"`
	UploadedByName    string  `json:"uploaded_by_name"`
	Team              *int64  `json:"team"`
	TeamName          *string `json:"team_name"`
	SharedWithPlayers []int64 `json:"shared_with_players"`
	Description       *string `json:"description"`
	FileType          string  `json:"file_type"`
	UploadedAt        string  `json:"uploaded_at"`
}

// GroupByType buckets documents by file type, keys sorted.
func GroupByType(docs []Document) ([]string, map[string][]Document) {
	groups := make(map[string][]Document)
	for _, d := range docs {
		key := d.FileType
		if key == "" {
			key = OtherType
		}
		groups[key] = append(groups[key], d)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, groups
}

// Upload is a new document. Coaches and staff have the team set by the
// backend; admins may name one.
type Upload struct {
	Title             string
	Description       string
	Team              *int64
	SharedWithPlayers []int64

	File     io.Reader
	FileName string
}

func (u Upload) form() *apiclient.Form {
	f := apiclient.NewForm().Add("title", strings.TrimSpace(u.Title))
	if u.Description != "" {
		f.Add("description", u.Description)
	}
	if u.Team != nil {
		f.Add("team", strconv.FormatInt(*u.Team, 10))
	}
	for _, id := range u.SharedWithPlayers {
		f.Add("shared_with_players", strconv.FormatInt(id, 10))
	}
	return f.AddFile("file", path.Base(u.FileName), u.File)
}

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context) ([]Document, error) {
	return apiclient.GetList[Document](ctx, s.client, documentsPath, nil)
}

// Upload sends the document as multipart/form-data. A blank title or a
// missing file is refused before any request is made.
func (s *Service) Upload(ctx context.Context, u Upload) (*Document, error) {
	if strings.TrimSpace(u.Title) == "" || u.File == nil {
		return nil, apperrors.Wrapf(apperrors.ErrValidation, "document needs a title and a file")
	}
	var d Document
	if err := s.client.PostMultipart(ctx, documentsPath, u.form(), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("%s%d/", documentsPath, id))
}
