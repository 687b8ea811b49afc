package cluster

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"gamerec/internal/models"
)

// ErrRemote wraps errors reported by the catalog node itself.
var ErrRemote = errors.New("catalog node error")

// SendTask dials addr, writes task as one JSON line and reads one response.
func SendTask(ctx context.Context, addr string, task *CatalogTask) (*CatalogResponse, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	// unblock reads when ctx is canceled without a deadline
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(task); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bufio.NewReader(conn))
	var resp CatalogResponse
	if err := dec.Decode(&resp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return &resp, nil
}

// Client is a catalog.Catalog served by a remote catalog node.
type Client struct {
	addr string
}

func NewClient(addr string) *Client {
	return &Client{addr: addr}
}

func (c *Client) FetchAll(ctx context.Context, pages int) ([]models.Game, error) {
	return c.call(ctx, &CatalogTask{Op: OpFetchAll, Pages: pages})
}

func (c *Client) FetchByGenres(ctx context.Context, genres []string) ([]models.Game, error) {
	if len(genres) == 0 {
		return []models.Game{}, nil
	}
	return c.call(ctx, &CatalogTask{Op: OpFetchByGenres, Genres: genres})
}

func (c *Client) SearchByText(ctx context.Context, query string) ([]models.Game, error) {
	return c.call(ctx, &CatalogTask{Op: OpSearch, Query: query})
}

func (c *Client) call(ctx context.Context, task *CatalogTask) ([]models.Game, error) {
	resp, err := SendTask(ctx, c.addr, task)
	if err != nil {
		return nil, fmt.Errorf("catalog node %s %s: %w", c.addr, task.Op, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s: %s", ErrRemote, task.Op, resp.Error)
	}
	if resp.Games == nil {
		return []models.Game{}, nil
	}
	return resp.Games, nil
}
