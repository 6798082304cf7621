package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"claimdesk/internal/store"
	"claimdesk/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	claims    *store.ClaimRepository
	queries   *store.ClaimQueryService
	employees *store.EmployeeRepository

	cookie *securecookie.SecureCookie

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	claims *store.ClaimRepository,
	queries *store.ClaimQueryService,
	employees *store.EmployeeRepository,
) (*Service, error) {

	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie hash key: %w", err)
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie block key: %w", err)
	}

	s := &Service{
		logger:    logger,
		config:    config,
		claims:    claims,
		queries:   queries,
		employees: employees,
		cookie:    securecookie.New(hashKey, blockKey),
	}

	mux := flow.New()
	mux.Use(s.LoggingMiddleware)

	mux.Group(func(mux *flow.Mux) {
		mux.Use(s.RequireSession)

		mux.HandleFunc("/claims", s.handleCreateClaim, "POST")
		mux.HandleFunc("/claims", s.handleListClaims, "GET")
		mux.HandleFunc("/claims/:claimID", s.handleGetClaim, "GET")
		mux.HandleFunc("/claims/:claimID", s.handleUpdateClaim, "PUT")
		mux.HandleFunc("/claims/:claimID", s.handleDeleteClaim, "DELETE")
		mux.HandleFunc("/claims/:claimID/status", s.handleUpdateClaimStatus, "PUT")
		mux.HandleFunc("/claims/:claimID/attachments", s.handleUploadClaimAttachment, "POST")
		mux.HandleFunc("/items/:itemID/attachments", s.handleUploadItemAttachment, "POST")
		mux.HandleFunc("/attachments/:attachmentID", s.handleDeleteAttachment, "DELETE")
	})

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", config.ServerPort),
		Handler:      mux,
		ReadTimeout:  time.Duration(config.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(config.WriteTimeoutSec) * time.Second,
	}

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
