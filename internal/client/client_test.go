package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profiremanager/pfm-cli/internal/client"
	"github.com/profiremanager/pfm-cli/internal/domain"
	"github.com/profiremanager/pfm-cli/internal/testutil"
)

func newClient(t *testing.T, srv *testutil.Server) *client.Client {
	t.Helper()
	c, err := client.New(client.Options{
		BaseURL: srv.BaseURL(),
		Tenant:  srv.Tenant,
		Token:   "test-token",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresBaseURLAndTenant(t *testing.T) {
	t.Parallel()

	_, err := client.New(client.Options{Tenant: "caserne"})
	assert.Error(t, err)

	_, err = client.New(client.Options{BaseURL: "http://localhost/api"})
	assert.Error(t, err)
}

func TestCreateDisponibilite(t *testing.T) {
	t.Parallel()

	srv := testutil.NewServer("caserne-12")
	t.Cleanup(srv.Close)
	c := newClient(t, srv)

	entry := domain.Availability{
		UserID:  7,
		Date:    domain.NewDate(2024, time.March, 6),
		Statut:  domain.StatutDisponible,
		Origine: domain.OrigineRecurrence,
	}

	t.Run("created", func(t *testing.T) {
		result, err := c.CreateDisponibilite(context.Background(), entry)
		require.NoError(t, err)
		require.NotNil(t, result.Created)
		assert.False(t, result.Conflicted())
		assert.NotZero(t, result.Created.ID)
	})

	t.Run("conflict is data, not an error", func(t *testing.T) {
		result, err := c.CreateDisponibilite(context.Background(), entry)
		require.NoError(t, err)
		require.True(t, result.Conflicted())
		require.Len(t, result.Conflicting, 1)
		assert.Equal(t, entry.Key(), result.Conflicting[0].Key())
	})

	t.Run("server failure maps to a server kind", func(t *testing.T) {
		failing := entry
		failing.Date = domain.NewDate(2024, time.March, 7)
		srv.FailCreate[failing.Date.String()] = 500

		_, err := c.CreateDisponibilite(context.Background(), failing)
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, client.KindServer, apiErr.Kind)
		assert.Equal(t, "erreur forcée", apiErr.Detail)
	})
}

func TestListAndDelete(t *testing.T) {
	t.Parallel()

	srv := testutil.NewServer("caserne-12")
	t.Cleanup(srv.Close)
	c := newClient(t, srv)

	seeded := srv.Seed(
		domain.Availability{UserID: 3, Date: domain.NewDate(2024, time.May, 1), Statut: domain.StatutDisponible, Origine: domain.OrigineManuelle},
		domain.Availability{UserID: 3, Date: domain.NewDate(2024, time.May, 2), Statut: domain.StatutDisponible, Origine: domain.OrigineRecurrence},
		domain.Availability{UserID: 9, Date: domain.NewDate(2024, time.May, 1), Statut: domain.StatutDisponible, Origine: domain.OrigineManuelle},
	)

	entries, err := c.ListDisponibilites(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.NoError(t, c.DeleteDisponibilite(context.Background(), seeded[0].ID))

	entries, err = c.ListDisponibilites(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	t.Run("deleting twice yields not found", func(t *testing.T) {
		err := c.DeleteDisponibilite(context.Background(), seeded[0].ID)
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, client.KindNotFound, apiErr.Kind)
	})
}

func TestReplaceDisponibilites(t *testing.T) {
	t.Parallel()

	srv := testutil.NewServer("caserne-12")
	t.Cleanup(srv.Close)
	c := newClient(t, srv)

	srv.Seed(domain.Availability{UserID: 5, Date: domain.NewDate(2024, time.June, 1), Statut: domain.StatutDisponible, Origine: domain.OrigineManuelle})

	replacement := []domain.Availability{
		{UserID: 5, Date: domain.NewDate(2024, time.June, 10), Statut: domain.StatutIndisponible, Origine: domain.OrigineManuelle},
		{UserID: 5, Date: domain.NewDate(2024, time.June, 11), Statut: domain.StatutIndisponible, Origine: domain.OrigineManuelle},
	}
	require.NoError(t, c.ReplaceDisponibilites(context.Background(), 5, replacement))

	entries, err := c.ListDisponibilites(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestNetworkFailureKind(t *testing.T) {
	t.Parallel()

	c, err := client.New(client.Options{
		BaseURL: "http://127.0.0.1:1/api", // nothing listens here
		Tenant:  "caserne-12",
		Timeout: time.Second,
	})
	require.NoError(t, err)

	_, err = c.ListDisponibilites(context.Background(), 1)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, client.KindNetwork, apiErr.Kind)
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	sign := func(exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(exp),
		})
		signed, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)
		return signed
	}

	now := time.Now()

	t.Run("expired token detected", func(t *testing.T) {
		c, err := client.New(client.Options{
			BaseURL: "http://localhost/api",
			Tenant:  "caserne-12",
			Token:   sign(now.Add(-time.Hour)),
		})
		require.NoError(t, err)
		assert.True(t, c.TokenExpired(now))
	})

	t.Run("valid token accepted", func(t *testing.T) {
		c, err := client.New(client.Options{
			BaseURL: "http://localhost/api",
			Tenant:  "caserne-12",
			Token:   sign(now.Add(time.Hour)),
		})
		require.NoError(t, err)
		assert.False(t, c.TokenExpired(now))
	})

	t.Run("opaque token is tolerated", func(t *testing.T) {
		c, err := client.New(client.Options{
			BaseURL: "http://localhost/api",
			Tenant:  "caserne-12",
			Token:   "not-a-jwt",
		})
		require.NoError(t, err)
		assert.False(t, c.TokenExpired(now))
		_, err = c.TokenExpiry()
		assert.Error(t, err)
	})
}

func TestStartAttribution(t *testing.T) {
	t.Parallel()

	srv := testutil.NewServer("caserne-12")
	t.Cleanup(srv.Close)
	c := newClient(t, srv)

	task, err := c.StartAttribution(context.Background(), client.AttributionOptions{
		Semaine: domain.NewDate(2024, time.March, 4),
		Reset:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "task-1", task.TaskID)
	assert.NotEmpty(t, task.StreamURL)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	t.Parallel()

	srv := testutil.NewServer("caserne-12")
	t.Cleanup(srv.Close)

	c, err := client.New(client.Options{BaseURL: srv.BaseURL(), Tenant: srv.Tenant})
	require.NoError(t, err)

	_, err = c.ListDisponibilites(context.Background(), 1)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, client.KindValidation, apiErr.Kind)
	assert.Equal(t, "jeton manquant", apiErr.Detail)
}
