package cluster

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"gamerec/internal/catalog"
	"gamerec/internal/logging"

	"github.com/rs/zerolog"
)

// Server answers CatalogTasks from a local catalog.
type Server struct {
	catalog catalog.Catalog
	nodeID  string
	timeout time.Duration
	logger  zerolog.Logger
}

func NewServer(c catalog.Catalog, nodeID string, timeout time.Duration) *Server {
	return &Server{
		catalog: c,
		nodeID:  nodeID,
		timeout: timeout,
		logger:  logging.With("catalognode").With().Str("node", nodeID).Logger(),
	}
}

// Serve accepts connections until ctx is done or ln fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.logger.Warn().Err(err).Msg("accept error")
			continue
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	dec := json.NewDecoder(bufio.NewReader(conn))
	var task CatalogTask
	if err := dec.Decode(&task); err != nil {
		s.logger.Warn().Err(err).Msg("decode task")
		return
	}

	start := time.Now()
	resp := s.Handle(ctx, task)

	s.logger.Info().
		Str("op", task.Op).
		Int("games", len(resp.Games)).
		Str("error", resp.Error).
		Dur("elapsed", time.Since(start)).
		Msg("task done")

	if err := json.NewEncoder(conn).Encode(&resp); err != nil {
		s.logger.Warn().Err(err).Msg("encode response")
	}
}

// Handle runs one task against the local catalog.
func (s *Server) Handle(ctx context.Context, task CatalogTask) CatalogResponse {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp := CatalogResponse{NodeID: s.nodeID}
	var err error
	switch task.Op {
	case OpFetchAll:
		resp.Games, err = s.catalog.FetchAll(ctx, task.Pages)
	case OpFetchByGenres:
		resp.Games, err = s.catalog.FetchByGenres(ctx, task.Genres)
	case OpSearch:
		resp.Games, err = s.catalog.SearchByText(ctx, task.Query)
	default:
		err = fmt.Errorf("unknown op %q", task.Op)
	}
	if err != nil {
		resp.Games = nil
		resp.Error = err.Error()
	}
	return resp
}
