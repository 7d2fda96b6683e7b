package service

import (
	"context"
	"fmt"
	"time"

	v1 "certlab/api/v1"
	"certlab/internal/model"
	"certlab/internal/repository"
	"certlab/pkg/log"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const consoleTokenTTL = 5 * time.Minute

// LabConsoleService backs the simulated lab shell. Browser websockets cannot
// carry an Authorization header, so the console is opened with a short-lived
// ws_token minted here instead of the session token.
type LabConsoleService interface {
	IssueToken(ctx context.Context, instanceID string) (*v1.ConsoleTokenData, error)
	StreamConsole(ctx context.Context, conn *websocket.Conn, wsToken string) error
}

func NewLabConsoleService(
	service *Service,
	instanceRepo repository.LabInstanceRepository,
	logger *log.Logger,
) LabConsoleService {
	return &labConsoleService{
		instanceRepo: instanceRepo,
		Service:      service,
		logger:       logger,
	}
}

type labConsoleService struct {
	instanceRepo repository.LabInstanceRepository
	*Service
	logger *log.Logger
}

func (s *labConsoleService) IssueToken(ctx context.Context, instanceID string) (*v1.ConsoleTokenData, error) {
	inst, err := s.instanceRepo.GetByInstanceID(ctx, instanceID)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to get instance", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	if inst == nil {
		return nil, v1.ErrInstanceNotFound
	}
	if inst.Status != model.InstanceStatusRunning {
		return nil, v1.ErrInvalidTransition
	}
	token, err := s.jwt.GenToken(inst.InstanceID, "console", time.Now().Add(consoleTokenTTL))
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to mint console token", zap.Error(err))
		return nil, v1.ErrInternalServerError
	}
	return &v1.ConsoleTokenData{
		WsToken:   token,
		ExpiresIn: int(consoleTokenTTL.Seconds()),
	}, nil
}

func (s *labConsoleService) StreamConsole(ctx context.Context, conn *websocket.Conn, wsToken string) error {
	claims, err := s.jwt.ParseToken(wsToken)
	if err != nil || claims.Role != "console" {
		return v1.ErrUnauthorized
	}
	inst, err := s.instanceRepo.GetByInstanceID(ctx, claims.UserId)
	if err != nil || inst == nil {
		return v1.ErrInstanceNotFound
	}
	if inst.Status != model.InstanceStatusRunning {
		return v1.ErrInvalidTransition
	}

	banner := fmt.Sprintf("Connected to %s (%s %s, %s)\r\n", inst.InstanceID, inst.ProviderID, inst.Region, inst.InstanceTypeID)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(banner)); err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte("$ ")); err != nil {
		return err
	}

	// echo loop: the simulated shell just reflects input back
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return nil
		}
		reply := fmt.Sprintf("%s\r\n$ ", msg)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			return err
		}
	}
}
