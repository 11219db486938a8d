package gateway

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	appErrors "github.com/schedulify/schedulify-cli/pkg/errors"
)

// Download performs a binary GET and returns the payload together with the
// file name from the Content-Disposition header, falling back to the caller's
// default.
func (c *Client) Download(ctx context.Context, path, defaultName string) (string, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return "", nil, c.decodeFailure(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}

	name := defaultName
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if fn := strings.Trim(params["filename"], `"'`); fn != "" {
				name = filepath.Base(fn)
			}
		}
	}
	return name, data, nil
}

// ClassPDF downloads the server-rendered PDF for one class section.
func (c *Client) ClassPDF(ctx context.Context, schoolID, classID, sectionID string) (string, []byte, error) {
	path := fmt.Sprintf("/pdf/class/%s/%s/%s", schoolID, classID, sectionID)
	return c.Download(ctx, path, fmt.Sprintf("Class_%s_%s.pdf", classID, sectionID))
}

// TeacherPDF downloads the server-rendered PDF for one teacher.
func (c *Client) TeacherPDF(ctx context.Context, schoolID, teacherID string) (string, []byte, error) {
	path := fmt.Sprintf("/pdf/teacher/%s/%s", schoolID, teacherID)
	return c.Download(ctx, path, fmt.Sprintf("Teacher_%s.pdf", teacherID))
}

// TeacherCSV downloads the CSV export for one teacher.
func (c *Client) TeacherCSV(ctx context.Context, schoolID, teacherID string) (string, []byte, error) {
	path := fmt.Sprintf("/timetable/teacher/%s/%s/csv", schoolID, teacherID)
	return c.Download(ctx, path, fmt.Sprintf("Teacher_%s.csv", teacherID))
}

// UploadMaster sends the master data workbook (sheets: Teachers, Subjects,
// Classes, LabRooms) as a multipart upload. The server owns the sheet and
// column contract; the client only hands over the bytes.
func (c *Client) UploadMaster(ctx context.Context, schoolID, filename string, file io.Reader) (string, error) {
	body := &strings.Builder{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "prepare upload")
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "read upload file")
	}
	if err := writer.Close(); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "finalize upload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.url(fmt.Sprintf("/upload/%s/master", schoolID)), strings.NewReader(body.String()))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return "", c.decodeFailure(resp)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}
	return strings.TrimSpace(string(raw)), nil
}
