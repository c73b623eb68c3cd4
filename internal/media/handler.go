package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gennyproject/media-proxy/internal/middleware"
	"github.com/gennyproject/media-proxy/internal/response"
	"github.com/gennyproject/media-proxy/internal/storage"
)

// Handler holds HTTP handlers for the media endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new media Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// fileListResponse is the upload response body.
type fileListResponse struct {
	Files []UploadedFile `json:"files"`
}

// UploadUserFiles godoc
//
//	@Summary		Upload files to the caller's private namespace
//	@Description	Stores each multipart file under a fresh identifier scoped to the authenticated user.
//	@Tags			media
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	fileListResponse
//	@Failure		401	{object}	response.Envelope
//	@Failure		400	{object}	response.Envelope
//	@Router			/media [post]
func (h *Handler) UploadUserFiles(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.CallerID(r.Context())
	if !ok {
		response.Unauthorized(w, "token has no identity")
		return
	}
	h.upload(w, r, storage.User(callerID))
}

// FetchUserFile godoc
//
//	@Summary		Fetch a file from the caller's private namespace
//	@Description	Returns the stored bytes for the given identifier if it exists in the caller's subtree.
//	@Tags			media
//	@Produce		octet-stream
//	@Security		BearerAuth
//	@Param			fileuuid	path	string	true	"file identifier"
//	@Success		200	{file}		binary
//	@Failure		400	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/media/{fileuuid} [get]
func (h *Handler) FetchUserFile(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.CallerID(r.Context())
	if !ok {
		response.Unauthorized(w, "token has no identity")
		return
	}
	h.fetch(w, r, storage.User(callerID))
}

// UploadPublicFiles godoc
//
//	@Summary		Upload files to the public namespace
//	@Description	Stores each multipart file under a fresh identifier readable by anyone.
//	@Tags			public
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	fileListResponse
//	@Failure		401	{object}	response.Envelope
//	@Failure		400	{object}	response.Envelope
//	@Router			/public [post]
func (h *Handler) UploadPublicFiles(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, storage.Public())
}

// FetchPublicFile godoc
//
//	@Summary		Fetch a file from the public namespace
//	@Tags			public
//	@Produce		octet-stream
//	@Param			fileuuid	path	string	true	"file identifier"
//	@Success		200	{file}		binary
//	@Failure		400	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/public/{fileuuid} [get]
func (h *Handler) FetchPublicFile(w http.ResponseWriter, r *http.Request) {
	h.fetch(w, r, storage.Public())
}

// DeletePublicFile godoc
//
//	@Summary		Delete a file from the public namespace
//	@Description	Idempotent: deleting an identifier that was never stored succeeds.
//	@Tags			public
//	@Param			fileuuid	path	string	true	"file identifier"
//	@Success		200
//	@Failure		400	{object}	response.Envelope
//	@Router			/public/{fileuuid} [delete]
func (h *Handler) DeletePublicFile(w http.ResponseWriter, r *http.Request) {
	id, ok := fileUUID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), storage.Public(), id); err != nil {
		log.Error().Err(err).Str("file", id.String()).Msg("delete failed")
		response.BadGateway(w, "storage unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// upload parses the multipart body and stores every file part in ns,
// answering with the name/identifier pairs in submission order. A request
// with no file parts answers an empty list rather than failing.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request, ns storage.Namespace) {
	files, err := readMultipart(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		response.BadRequest(w, "malformed multipart body")
		return
	}

	uploaded, err := h.svc.Upload(r.Context(), ns, files)
	if err != nil {
		log.Error().Err(err).Msg("upload failed")
		response.BadGateway(w, "storage unavailable")
		return
	}

	response.JSON(w, http.StatusOK, fileListResponse{Files: uploaded})
}

// fetch streams the object under (ns, fileuuid) to the client with its
// stored content type.
func (h *Handler) fetch(w http.ResponseWriter, r *http.Request, ns storage.Namespace) {
	id, ok := fileUUID(w, r)
	if !ok {
		return
	}

	obj, err := h.svc.Fetch(r.Context(), ns, id)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "file not found")
			return
		}
		log.Error().Err(err).Str("file", id.String()).Msg("fetch failed")
		response.BadGateway(w, "storage unavailable")
		return
	}
	defer obj.Content.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", obj.Size))
	if _, err := io.Copy(w, obj.Content); err != nil {
		log.Error().Err(err).Str("file", id.String()).Msg("write response failed")
	}
}

// fileUUID parses the fileuuid path segment, rejecting malformed identifiers
// before any storage call.
func fileUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "fileuuid"))
	if err != nil {
		response.BadRequest(w, "malformed file identifier")
		return uuid.Nil, false
	}
	return id, true
}

// readMultipart collects the file parts of a multipart request in submission
// order. Part bodies are buffered; the transport-level body cap bounds the
// total size.
func readMultipart(r *http.Request) ([]File, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("open multipart reader: %w", err)
	}

	var files []File
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read multipart part: %w", err)
		}
		name := part.FileName()
		if name == "" {
			_ = part.Close()
			continue
		}
		contentType := partContentType(part)

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, part); err != nil {
			_ = part.Close()
			return nil, fmt.Errorf("read file part %q: %w", name, err)
		}
		_ = part.Close()

		files = append(files, File{
			Name:        name,
			ContentType: contentType,
			Content:     bytes.NewReader(buf.Bytes()),
			Size:        int64(buf.Len()),
		})
	}
	return files, nil
}

func partContentType(part *multipart.Part) string {
	if ct := part.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
