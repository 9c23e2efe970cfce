package registry

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/guard"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/models"
)

// DelegatedRegistry forwards every operation to the guard service. It
// holds no script state of its own; the guard service is the sole
// arbiter of name conflicts and existence.
type DelegatedRegistry struct {
	client *guard.Client
	log    *logrus.Entry
}

func NewDelegatedRegistry(logger *logrus.Logger, client *guard.Client) *DelegatedRegistry {
	return &DelegatedRegistry{
		client: client,
		log:    logger.WithField("component", "delegated_registry"),
	}
}

func (d *DelegatedRegistry) Mode() string {
	return ModeDelegated
}

func (d *DelegatedRegistry) List(ctx context.Context) ([]models.Script, error) {
	scripts, err := d.client.List(ctx)
	if err != nil {
		return nil, d.wrap("list", "", err)
	}
	return scripts, nil
}

func (d *DelegatedRegistry) Create(ctx context.Context, name, code string) (*models.Script, error) {
	if err := validate(name, code); err != nil {
		return nil, err
	}

	// Cheap duplicate check first; the guard service still arbitrates
	// races between concurrent callers via its own conflict response.
	existing, err := d.client.List(ctx)
	if err != nil {
		return nil, d.wrap("create", name, err)
	}
	for _, s := range existing {
		if s.Name == name {
			return nil, &ConflictError{Name: name}
		}
	}

	script, err := d.client.Upload(ctx, name, code)
	if err != nil {
		return nil, d.wrap("create", name, err)
	}
	return script, nil
}

// Update is emulated as delete-then-create because the guard service
// has no update primitive. The recreated script gets a fresh id and
// createdAt. If the create leg fails after the delete succeeded the
// payload would be lost, so that leg is retried once before giving up.
func (d *DelegatedRegistry) Update(ctx context.Context, name, code string) (*models.Script, error) {
	if err := validate(name, code); err != nil {
		return nil, err
	}

	if err := d.client.Delete(ctx, name); err != nil {
		return nil, d.wrap("update", name, err)
	}

	script, err := d.client.Upload(ctx, name, code)
	if err != nil {
		d.log.WithError(err).WithField("name", name).
			Warn("Re-create after delete failed, retrying once")
		script, err = d.client.Upload(ctx, name, code)
	}
	if err != nil {
		d.log.WithError(err).WithField("name", name).
			Error("Script deleted but re-create failed, payload lost upstream")
		return nil, d.wrap("update", name, err)
	}
	return script, nil
}

func (d *DelegatedRegistry) Delete(ctx context.Context, name string) error {
	if err := d.client.Delete(ctx, name); err != nil {
		return d.wrap("delete", name, err)
	}
	return nil
}

// wrap converts guard client failures into the registry taxonomy:
// 404 and 409 keep their meaning, everything else (including raw
// transport errors) becomes a DelegationError.
func (d *DelegatedRegistry) wrap(op, name string, err error) error {
	var se *guard.StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusNotFound:
			return &NotFoundError{Name: name}
		case http.StatusConflict:
			return &ConflictError{Name: name}
		}
	}
	return &DelegationError{Op: op, Cause: err}
}
