// Package pubsub owns the Google Pub/Sub connection the outbox publisher
// sends order events through.
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/revendedor/painel-backend/pkg/config"
	"github.com/revendedor/painel-backend/pkg/logger"
)

var (
	errProjectIDRequired = errors.New("gcp project id is required")
	errTopicRequired     = errors.New("pubsub orders topic is required")
	errClosed            = errors.New("pubsub client not initialized")
)

// permanentCodes are publish failures a retry cannot fix.
var permanentCodes = map[codes.Code]bool{
	codes.InvalidArgument:    true,
	codes.NotFound:           true,
	codes.PermissionDenied:   true,
	codes.FailedPrecondition: true,
	codes.Unauthenticated:    true,
}

// Client wraps a Pub/Sub v2 client bound to one project.
type Client struct {
	gcp     *gcppubsub.Client
	project string
	orders  string
}

// NewClient connects to Pub/Sub and refuses to start unless the orders topic
// already exists; topics are provisioned outside the service.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	project := strings.TrimSpace(gcp.ProjectID)
	orders := strings.TrimSpace(cfg.OrdersTopic)
	switch {
	case project == "":
		return nil, errProjectIDRequired
	case orders == "":
		return nil, errTopicRequired
	}

	var opts []option.ClientOption
	if creds := strings.TrimSpace(gcp.CredentialsJSON); creds != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
	}
	conn, err := gcppubsub.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect pubsub: %w", err)
	}

	c := &Client{gcp: conn, project: project, orders: orders}
	if err := c.Ping(ctx); err != nil {
		return nil, errors.Join(err, conn.Close())
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "topic", c.topic(orders)), "pubsub ready")
	}
	return c, nil
}

func (c *Client) topic(name string) string {
	return topicResourceName(c.project, name)
}

// Publisher returns a handle for name, which may be a bare topic id or a
// full projects/<p>/topics/<t> resource. Nil when the client is unusable.
func (c *Client) Publisher(name string) *gcppubsub.Publisher {
	if c == nil || c.gcp == nil {
		return nil
	}
	full := c.topic(name)
	if full == "" {
		return nil
	}
	return c.gcp.Publisher(full)
}

// OrdersTopic is where order lifecycle events are published.
func (c *Client) OrdersTopic() string {
	if c == nil {
		return ""
	}
	return c.orders
}

// Ping looks up the orders topic through the admin API.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.gcp == nil {
		return errClosed
	}
	full := c.topic(c.orders)
	if full == "" {
		return errTopicRequired
	}
	_, err := c.gcp.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: full})
	switch {
	case err == nil:
		return nil
	case status.Code(err) == codes.NotFound:
		return fmt.Errorf("topic %s does not exist", full)
	default:
		return fmt.Errorf("get topic %s: %w", full, err)
	}
}

func (c *Client) Close() error {
	if c == nil || c.gcp == nil {
		return nil
	}
	return c.gcp.Close()
}

// topicResourceName qualifies a bare topic id with the project. Names that
// are already resources pass through; blanks yield "".
func topicResourceName(project, name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "projects/") && strings.Contains(name, "/topics/") {
		return name
	}
	project = strings.TrimSpace(project)
	if name == "" || project == "" {
		return ""
	}
	return "projects/" + project + "/topics/" + name
}

// IsPermanent reports whether a publish error will not succeed on retry.
func IsPermanent(err error) bool {
	return err != nil && permanentCodes[status.Code(err)]
}
