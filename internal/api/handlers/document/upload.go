package document

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/DealDesk-Platform/Document-Service/internal/filename"
	"github.com/DealDesk-Platform/Document-Service/internal/models"
	"github.com/DealDesk-Platform/Document-Service/internal/scanner"
)

// Upload ingests 1..N files from one multipart request.
//
// The batch is all-or-nothing through validation and scanning: any per-file
// validation error or any infected verdict rejects the whole request before
// a single byte is written. The write phase is the opposite: each file is
// stored and recorded independently, a failure there is reported but does
// not roll back files that already succeeded.
func (h *Handler) Upload(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		handleError(c, http.StatusUnauthorized, "Authentication required",
			"Please provide a valid authentication token")
		return
	}

	company, found := h.store.GetCompanyByUserID(userID)
	if !found {
		handleError(c, http.StatusNotFound, "Company not found",
			"No company associated with this user")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.uploadTimeout)
	defer cancel()

	// Guard the body reads with the same deadline, so a client trickling
	// bytes cannot hold the intake loop past the ceiling.
	c.Request.Body = deadlineBody{ReadCloser: c.Request.Body, ctx: ctx}

	reader, err := c.Request.MultipartReader()
	if err != nil {
		handleError(c, http.StatusBadRequest, "Invalid upload request",
			"Expected a multipart upload with at least one file")
		return
	}

	var (
		batch            []scanner.File
		mimeTypes        []string
		validationErrors []string
		totalFiles       int
	)

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				handleError(c, http.StatusRequestTimeout, "Upload timeout",
					"The upload did not complete within the allowed time")
				return
			}
			handleError(c, http.StatusBadRequest, "Invalid upload request",
				"Malformed multipart stream")
			return
		}

		if part.FileName() == "" {
			// Non-file form field
			part.Close()
			continue
		}
		totalFiles++

		if totalFiles > MaxFilesPerUpload {
			validationErrors = append(validationErrors, fmt.Sprintf(
				"File %d: Too many files. Maximum %d files allowed per upload",
				totalFiles, MaxFilesPerUpload))
			// Drain the remaining parts so the connection closes cleanly.
			drainMultipart(part, reader)
			break
		}

		mimeType := part.Header.Get("Content-Type")
		if !isAllowedType(mimeType) {
			validationErrors = append(validationErrors, fmt.Sprintf(
				"File %d: Invalid file type. Only PDF, Excel, and PowerPoint files are allowed.",
				totalFiles))
			discardPart(part)
			continue
		}

		// Read one byte past the limit so an oversized file is detected
		// without buffering more than the cap.
		content, err := io.ReadAll(io.LimitReader(part, MaxFileSize+1))
		part.Close()
		if err != nil {
			if ctx.Err() != nil {
				handleError(c, http.StatusRequestTimeout, "Upload timeout",
					"The upload did not complete within the allowed time")
				return
			}
			handleError(c, http.StatusBadRequest, "Invalid upload request",
				"Failed to read uploaded file")
			return
		}

		if len(content) == 0 || int64(len(content)) > MaxFileSize {
			validationErrors = append(validationErrors, fmt.Sprintf(
				"File %d: File too large. Maximum size is %dMB.",
				totalFiles, MaxFileSize/(1024*1024)))
			continue
		}

		batch = append(batch, scanner.File{Name: part.FileName(), Content: content})
		mimeTypes = append(mimeTypes, mimeType)
	}

	// Validation failure of any file blocks the batch outright.
	if len(validationErrors) > 0 {
		handleError(c, http.StatusBadRequest, "File validation failed",
			strings.Join(validationErrors, " "))
		return
	}

	if len(batch) == 0 {
		handleError(c, http.StatusBadRequest, "No files uploaded",
			"Please select at least one file to upload")
		return
	}

	scanCtx, cancelScan := context.WithTimeout(ctx, scanTimeout)
	verdicts, err := h.scanner.ScanBatch(scanCtx, batch)
	cancelScan()
	if err != nil || len(verdicts) != len(batch) {
		if err != nil {
			log.Printf("[UPLOAD] virus scan failed: %v", err)
		} else {
			log.Printf("[UPLOAD] virus scan returned %d verdicts for %d files", len(verdicts), len(batch))
		}
		handleError(c, http.StatusServiceUnavailable, "Virus scan service unavailable",
			"Unable to scan files for security threats")
		return
	}

	// Verdicts are positional; name infected files by index, never by
	// matching threat text.
	var infected []string
	for i, verdict := range verdicts {
		if !verdict.Clean {
			log.Printf("[UPLOAD] threats detected in %s: %s",
				batch[i].Name, strings.Join(verdict.Threats, "; "))
			infected = append(infected, batch[i].Name)
		}
	}
	if len(infected) > 0 {
		handleError(c, http.StatusBadRequest, "Virus scan failed",
			"Infected files detected: "+strings.Join(infected, ", "))
		return
	}

	// Write phase: per-file, continue on error. Files already stored and
	// recorded stay valid regardless of later failures.
	uploaded := make([]models.Document, 0, len(batch))
	var uploadErrors []string

	for i, f := range batch {
		safeName := filename.Sanitize(f.Name)
		key := filename.DeriveStorageKey(safeName)

		res, err := h.files.Write(ctx, company.ID, key, f.Content, mimeTypes[i])
		if err != nil {
			log.Printf("[UPLOAD] storage write failed for %s: %v", safeName, err)
			uploadErrors = append(uploadErrors,
				fmt.Sprintf("Failed to save %s: storage write failed", safeName))
			continue
		}

		doc := models.Document{
			ID:        uuid.New().String(),
			CompanyID: company.ID,
			Name:      safeName,
			MimeType:  mimeTypes[i],
			Size:      res.Size,
			Path:      res.Path,
			CreatedAt: time.Now().UTC(),
		}
		if err := h.store.SaveDocument(doc); err != nil {
			log.Printf("[UPLOAD] metadata save failed for %s: %v", safeName, err)
			uploadErrors = append(uploadErrors,
				fmt.Sprintf("Failed to record %s: metadata save failed", safeName))
			continue
		}

		uploaded = append(uploaded, doc)

		msg := fmt.Sprintf("Document %q uploaded and scanned successfully", safeName)
		if err := h.notifier.Emit(userID, "document", msg); err != nil {
			log.Printf("warning: failed to send upload notification: %v", err)
		}
	}

	if len(uploadErrors) > 0 {
		handleError(c, http.StatusInternalServerError, "Partial upload failure",
			strings.Join(uploadErrors, " "))
		return
	}

	sendSuccess(c, uploaded, "Files uploaded successfully")
}

// deadlineBody fails reads once the request deadline has expired. The
// multipart reader sits on top of it, so both part headers and payload
// bytes stop arriving when the ceiling is hit.
type deadlineBody struct {
	io.ReadCloser
	ctx context.Context
}

func (b deadlineBody) Read(p []byte) (int, error) {
	if err := b.ctx.Err(); err != nil {
		return 0, err
	}
	return b.ReadCloser.Read(p)
}

func discardPart(part io.ReadCloser) {
	_, _ = io.Copy(io.Discard, part)
	part.Close()
}

// drainMultipart consumes the current part and everything after it so the
// client can finish sending and the connection can close cleanly.
func drainMultipart(current io.ReadCloser, reader *multipart.Reader) {
	discardPart(current)
	for {
		part, err := reader.NextPart()
		if err != nil {
			return
		}
		discardPart(part)
	}
}
