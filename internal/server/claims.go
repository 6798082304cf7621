package server

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"claimdesk/pkg/types"

	"github.com/alexedwards/flow"
)

const maxUploadBytes = 10 << 20 // 10 MiB per request

// claimForm is the multipart submission shape: status plus indexed item
// fields (items[0].date, items[0].amount, ...) and claim-level files.
type claimForm struct {
	Status string          `form:"status"`
	Items  []types.RawItem `form:"items"`
}

func (s *Service) handleCreateClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := s.callerFromContext(ctx)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "bad_request", "expected multipart form")
		return
	}

	var input claimForm
	if err := decoder.Decode(&input, r.MultipartForm.Value); err != nil {
		s.logger.WithError(err).Debug("failed to decode claim form")
		s.respondError(w, http.StatusBadRequest, "bad_request", "malformed claim form")
		return
	}

	status := types.ClaimStatus(strings.TrimSpace(input.Status))
	if status == "" {
		status = types.ClaimStatusDraft
	}

	result, err := s.claims.CreateClaim(ctx, caller.EmployeeID, input.Items, status)
	if err != nil {
		s.respondOperationError(w, err)
		return
	}

	// Claim-level evidence files ride along on the create form. The claim
	// is already committed; a failed upload must surface to the user.
	for _, header := range r.MultipartForm.File["files"] {
		if err := s.attachUploadedFile(r, header, result.Claim.ID, "", caller); err != nil {
			s.logger.WithError(err).WithField("claim_id", result.Claim.ID).Error("claim created but file failed to attach")
			s.respondError(w, http.StatusInternalServerError, "upload_failed", "claim saved, but a file failed to attach")
			return
		}
	}

	s.respondData(w, http.StatusCreated, result)
}

func (s *Service) handleListClaims(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := s.callerFromContext(ctx)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	employeeID := strings.TrimSpace(r.URL.Query().Get("employee_id"))

	if (status != "" || (employeeID != "" && employeeID != caller.EmployeeID)) && !caller.IsAdmin {
		s.respondOperationError(w, types.ErrForbidden)
		return
	}

	var (
		claims []*types.Claim
		err    error
	)
	switch {
	case status != "":
		claims, err = s.queries.ClaimsByStatus(ctx, types.ClaimStatus(status))
	case employeeID != "":
		claims, err = s.queries.ClaimsByEmployee(ctx, employeeID)
	default:
		claims, err = s.queries.ClaimsByEmployee(ctx, caller.EmployeeID)
	}
	if err != nil {
		s.respondOperationError(w, err)
		return
	}

	s.respondData(w, http.StatusOK, claims)
}

func (s *Service) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := s.callerFromContext(ctx)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	detail, err := s.queries.ClaimDetails(ctx, flow.Param(ctx, "claimID"), caller)
	if err != nil {
		s.respondOperationError(w, err)
		return
	}

	s.respondData(w, http.StatusOK, detail)
}

func (s *Service) handleUpdateClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := s.callerFromContext(ctx)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	var input struct {
		Items []types.RawItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	result, err := s.claims.UpdateClaim(ctx, flow.Param(ctx, "claimID"), caller, input.Items)
	if err != nil {
		s.respondOperationError(w, err)
		return
	}

	s.respondData(w, http.StatusOK, result)
}

func (s *Service) handleUpdateClaimStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := s.callerFromContext(ctx)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	var input struct {
		Status     string  `json:"status"`
		AdminNotes *string `json:"adminNotes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	claim, err := s.claims.UpdateClaimStatus(ctx, flow.Param(ctx, "claimID"), caller, types.ClaimStatus(input.Status), input.AdminNotes)
	if err != nil {
		s.respondOperationError(w, err)
		return
	}

	s.respondData(w, http.StatusOK, claim)
}

func (s *Service) handleDeleteClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := s.callerFromContext(ctx)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	if err := s.claims.DeleteClaim(ctx, flow.Param(ctx, "claimID"), caller); err != nil {
		s.respondOperationError(w, err)
		return
	}

	s.respondData(w, http.StatusOK, nil)
}

func (s *Service) handleUploadClaimAttachment(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, flow.Param(r.Context(), "claimID"), "")
}

func (s *Service) handleUploadItemAttachment(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, "", flow.Param(r.Context(), "itemID"))
}

func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request, claimID, itemID string) {
	ctx := r.Context()

	caller, ok := s.callerFromContext(ctx)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "bad_request", "expected multipart form")
		return
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		s.respondError(w, http.StatusBadRequest, "bad_request", "file is required")
		return
	}

	attachments := make([]*types.Attachment, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "bad_request", "unreadable file")
			return
		}

		var attachment *types.Attachment
		if itemID != "" {
			attachment, err = s.claims.AttachToItem(ctx, itemID, caller, header.Filename, header.Header.Get("Content-Type"), file)
		} else {
			attachment, err = s.claims.AttachToClaim(ctx, claimID, caller, header.Filename, header.Header.Get("Content-Type"), file)
		}
		file.Close()

		if err != nil {
			s.respondOperationError(w, err)
			return
		}

		attachments = append(attachments, attachment)
	}

	s.respondData(w, http.StatusCreated, attachments)
}

func (s *Service) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := s.callerFromContext(ctx)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	if err := s.claims.RemoveAttachment(ctx, flow.Param(ctx, "attachmentID"), caller); err != nil {
		s.respondOperationError(w, err)
		return
	}

	s.respondData(w, http.StatusOK, nil)
}

func (s *Service) attachUploadedFile(r *http.Request, header *multipart.FileHeader, claimID, itemID string, caller types.Caller) error {
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	if itemID != "" {
		_, err = s.claims.AttachToItem(r.Context(), itemID, caller, header.Filename, header.Header.Get("Content-Type"), file)
		return err
	}

	_, err = s.claims.AttachToClaim(r.Context(), claimID, caller, header.Filename, header.Header.Get("Content-Type"), file)
	return err
}
