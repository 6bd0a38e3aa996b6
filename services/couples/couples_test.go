package couples

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"duet/models"

	"go.mongodb.org/mongo-driver/bson"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByIDWithProjection(id string, _ bson.M) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) Create(u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Update(u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpdateSetDocument(string, bson.M) error { return nil }
func (f *fakeUserRepo) Delete(id string) error                 { delete(f.users, id); return nil }

type fakeCoupleRepo struct {
	couples []*models.Couple
}

func (f *fakeCoupleRepo) GetByUserID(userID string) (*models.Couple, error) {
	for _, c := range f.couples {
		if c.Partner1ID == userID || c.Partner2ID == userID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCoupleRepo) Create(c *models.Couple) error {
	c.CreatedAt = time.Now()
	f.couples = append(f.couples, c)
	return nil
}

func (f *fakeCoupleRepo) Delete(string) error { return nil }

type fakeInvitationRepo struct {
	invitations map[string]*models.Invitation
}

func (f *fakeInvitationRepo) GetByToken(token string) (*models.Invitation, error) {
	for _, inv := range f.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvitationRepo) GetPending(inviterID, inviteeEmail string) (*models.Invitation, error) {
	for _, inv := range f.invitations {
		if inv.InviterID == inviterID && inv.InviteeEmail == inviteeEmail && inv.Status == models.InvitationPending {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvitationRepo) Create(inv *models.Invitation) error {
	inv.CreatedAt = time.Now()
	f.invitations[inv.ID] = inv
	return nil
}

func (f *fakeInvitationRepo) UpdateStatus(id, status string) error {
	inv, ok := f.invitations[id]
	if !ok {
		return fmt.Errorf("invitation with id %s not found", id)
	}
	inv.Status = status
	return nil
}

func (f *fakeInvitationRepo) ExpirePending() (int64, error) {
	var n int64
	for _, inv := range f.invitations {
		if inv.Status == models.InvitationPending && time.Now().After(inv.ExpiresAt) {
			inv.Status = models.InvitationExpired
			n++
		}
	}
	return n, nil
}

func newTestService() (*DefaultCouplesService, *fakeUserRepo, *fakeCoupleRepo, *fakeInvitationRepo) {
	users := &fakeUserRepo{users: map[string]*models.User{
		"alice": {ID: "alice", Email: "alice@example.com", FullName: "Alice"},
		"bob":   {ID: "bob", Email: "bob@example.com", FullName: "Bob"},
		"carol": {ID: "carol", Email: "carol@example.com", FullName: "Carol"},
	}}
	couples := &fakeCoupleRepo{}
	invitations := &fakeInvitationRepo{invitations: map[string]*models.Invitation{}}
	svc := &DefaultCouplesService{Couples: couples, Invitations: invitations, Users: users}
	return svc, users, couples, invitations
}

func TestCreateInvitation(t *testing.T) {
	t.Run("issues a fresh token with seven day expiry", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		resp, err := svc.CreateInvitation("alice", "bob@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Token == "" || resp.InviteeEmail != "bob@example.com" {
			t.Fatalf("bad invitation: %+v", resp)
		}
		if until := time.Until(resp.ExpiresAt); until < 6*24*time.Hour || until > 8*24*time.Hour {
			t.Fatalf("expiry not ~7 days out: %v", resp.ExpiresAt)
		}
	})

	t.Run("re-inviting returns the existing pending invitation", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		first, err := svc.CreateInvitation("alice", "bob@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := svc.CreateInvitation("alice", "bob@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.Token != second.Token || first.InvitationID != second.InvitationID {
			t.Fatalf("expected the same invitation back, got %+v and %+v", first, second)
		}
	})

	t.Run("rejects self invitation", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		if _, err := svc.CreateInvitation("alice", "alice@example.com"); err == nil {
			t.Fatal("expected error for self-invite")
		}
	})

	t.Run("rejects inviter who is already coupled", func(t *testing.T) {
		svc, _, couples, _ := newTestService()
		couples.couples = append(couples.couples, &models.Couple{ID: "c1", Partner1ID: "alice", Partner2ID: "carol"})
		if _, err := svc.CreateInvitation("alice", "bob@example.com"); err == nil {
			t.Fatal("expected error for coupled inviter")
		}
	})
}

func TestAcceptInvitation(t *testing.T) {
	invite := func(t *testing.T, svc *DefaultCouplesService) string {
		t.Helper()
		resp, err := svc.CreateInvitation("alice", "bob@example.com")
		if err != nil {
			t.Fatalf("invite failed: %v", err)
		}
		return resp.Token
	}

	t.Run("forms the couple and reports the inviter as partner", func(t *testing.T) {
		svc, _, couples, invitations := newTestService()
		token := invite(t, svc)

		resp, err := svc.AcceptInvitation(token, "bob")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Partner.ID != "alice" {
			t.Fatalf("expected partner alice, got %+v", resp.Partner)
		}
		if c, _ := couples.GetByUserID("bob"); c == nil {
			t.Fatal("couple was not persisted")
		}
		for _, inv := range invitations.invitations {
			if inv.Status != models.InvitationAccepted {
				t.Fatalf("invitation not marked accepted: %+v", inv)
			}
		}
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.AcceptInvitation("nope", "bob")
		if err == nil || !strings.Contains(err.Error(), "invalid") {
			t.Fatalf("expected invalid token error, got %v", err)
		}
	})

	t.Run("rejects a reused token", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		token := invite(t, svc)
		if _, err := svc.AcceptInvitation(token, "bob"); err != nil {
			t.Fatalf("first accept failed: %v", err)
		}
		if _, err := svc.AcceptInvitation(token, "bob"); err == nil {
			t.Fatal("expected error on second accept")
		}
	})

	t.Run("rejects an expired token and marks it expired", func(t *testing.T) {
		svc, _, _, invitations := newTestService()
		token := invite(t, svc)
		for _, inv := range invitations.invitations {
			inv.ExpiresAt = time.Now().Add(-time.Hour)
		}
		_, err := svc.AcceptInvitation(token, "bob")
		if err == nil || !strings.Contains(err.Error(), "expired") {
			t.Fatalf("expected expiry error, got %v", err)
		}
		for _, inv := range invitations.invitations {
			if inv.Status != models.InvitationExpired {
				t.Fatalf("invitation not marked expired: %+v", inv)
			}
		}
	})

	t.Run("rejects the wrong invitee", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		token := invite(t, svc)
		if _, err := svc.AcceptInvitation(token, "carol"); err == nil {
			t.Fatal("expected error for mismatched invitee email")
		}
	})

	t.Run("rejects when the inviter coupled up in the meantime", func(t *testing.T) {
		svc, _, couples, _ := newTestService()
		token := invite(t, svc)
		couples.couples = append(couples.couples, &models.Couple{ID: "c1", Partner1ID: "alice", Partner2ID: "carol"})
		if _, err := svc.AcceptInvitation(token, "bob"); err == nil {
			t.Fatal("expected error when inviter already coupled")
		}
	})
}

func TestGetPartner(t *testing.T) {
	svc, _, couples, _ := newTestService()

	resp, err := svc.GetPartner("alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != nil {
		t.Fatalf("expected nil for uncoupled user, got %+v", resp)
	}

	couples.couples = append(couples.couples, &models.Couple{ID: "c1", Partner1ID: "alice", Partner2ID: "bob", CreatedAt: time.Now()})

	resp, err = svc.GetPartner("alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || resp.Partner.ID != "bob" {
		t.Fatalf("expected partner bob, got %+v", resp)
	}

	// Symmetric from the other side.
	resp, err = svc.GetPartner("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || resp.Partner.ID != "alice" {
		t.Fatalf("expected partner alice, got %+v", resp)
	}
}
