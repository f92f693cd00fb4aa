package api

import (
	"errors"
	"net/http"

	"github.com/garnizeh/jobboard/internal/storage"
)

const uploadField = "file"

// storeUpload reads the multipart "file" field, checks it against kind and
// hands it to the file store. It returns the stored object and the original
// file name, or writes the error response and reports false.
func (b base) storeUpload(w http.ResponseWriter, r *http.Request, kind storage.Kind) (storage.Object, string, bool) {
	if b.files == nil {
		writeError(w, http.StatusServiceUnavailable, "File uploads are not configured.")
		return storage.Object{}, "", false
	}
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(storage.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeValidation(w, map[string][]string{uploadField: {storage.ErrTooLarge.Error()}})
			return storage.Object{}, "", false
		}
		writeError(w, http.StatusBadRequest, "Expected a multipart form upload.")
		return storage.Object{}, "", false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeValidation(w, map[string][]string{uploadField: {"A file is required."}})
		return storage.Object{}, "", false
	}
	defer file.Close()

	contentType, err := kind.Check(header.Filename, header.Size)
	if err != nil {
		writeValidation(w, map[string][]string{uploadField: {err.Error()}})
		return storage.Object{}, "", false
	}

	obj, err := b.files.Put(r.Context(), kind.Prefix, header.Filename, contentType, file)
	if errors.Is(err, storage.ErrTooLarge) {
		writeValidation(w, map[string][]string{uploadField: {err.Error()}})
		return storage.Object{}, "", false
	}
	if err != nil {
		serverError(w, r, "store upload", err)
		return storage.Object{}, "", false
	}
	return obj, header.Filename, true
}

// discardFile removes a file stored by storeUpload. It takes the object key
// kept on the record, never a URL from a request; failures are only logged.
func (b base) discardFile(r *http.Request, key string) {
	if b.files == nil || key == "" {
		return
	}
	if err := b.files.Delete(r.Context(), key); err != nil {
		logger.Warn("delete stored file", "key", key, "err", err)
	}
}
