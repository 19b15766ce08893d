package services

import (
	"context"
	"errors"
	"testing"

	"github.com/WillSeigler/Bookd/internal/apperr"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/WillSeigler/Bookd/internal/session"
	"github.com/WillSeigler/Bookd/pkg/firebase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	identities map[string]*firebase.Identity
}

func (f *fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*firebase.Identity, error) {
	id, ok := f.identities[idToken]
	if !ok {
		return nil, errors.New("token has expired")
	}
	return id, nil
}

func TestSignupAndSignIn(t *testing.T) {
	users := newFakeUsers()
	svc := NewAccountService(users, nil, "secret", nil)
	ctx := context.Background()

	sess, err := svc.Signup(ctx, models.SignupRequest{FullName: " Ana Lima ", Email: "Ana@Example.com ", Password: "hunter22!"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", sess.User.FullName)
	assert.Equal(t, "ana@example.com", sess.User.Email)
	assert.NotEqual(t, "hunter22!", sess.User.Password)

	claims, err := session.ParseToken("secret", sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.UserID)

	_, err = svc.Signup(ctx, models.SignupRequest{FullName: "Ana", Email: "ana@example.com", Password: "another1"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	signedIn, err := svc.SignIn(ctx, models.SignInRequest{Email: "ANA@example.com", Password: "hunter22!"})
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, signedIn.User.ID)

	_, err = svc.SignIn(ctx, models.SignInRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = svc.SignIn(ctx, models.SignInRequest{Email: "nobody@example.com", Password: "hunter22!"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestSignInRejectsFirebaseOnlyAccount(t *testing.T) {
	uid := "fb-1"
	users := newFakeUsers(models.User{ID: "u-1", Email: "ana@example.com", FirebaseUID: &uid})
	svc := NewAccountService(users, nil, "secret", nil)

	_, err := svc.SignIn(context.Background(), models.SignInRequest{Email: "ana@example.com", Password: ""})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestResolveFirebaseUser(t *testing.T) {
	verifier := &fakeVerifier{identities: map[string]*firebase.Identity{
		"tok-new":    {UID: "fb-new", Email: "new@example.com", Name: "New Person", Picture: "https://img/p.png"},
		"tok-link":   {UID: "fb-link", Email: "Existing@example.com"},
		"tok-linked": {UID: "fb-link", Email: "existing@example.com"},
	}}
	users := newFakeUsers(models.User{ID: "u-existing", FullName: "Existing", Email: "existing@example.com"})
	svc := NewAccountService(users, verifier, "secret", nil)
	ctx := context.Background()

	created, err := svc.ResolveFirebaseUser(ctx, "tok-new")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "New Person", created.FullName)
	assert.Equal(t, "https://img/p.png", created.AvatarURL)
	require.NotNil(t, created.FirebaseUID)
	assert.Equal(t, "fb-new", *created.FirebaseUID)

	linked, err := svc.ResolveFirebaseUser(ctx, "tok-link")
	require.NoError(t, err)
	assert.Equal(t, "u-existing", linked.ID)
	require.NotNil(t, users.byID["u-existing"].FirebaseUID)
	assert.Equal(t, "fb-link", *users.byID["u-existing"].FirebaseUID)

	again, err := svc.ResolveFirebaseUser(ctx, "tok-linked")
	require.NoError(t, err)
	assert.Equal(t, "u-existing", again.ID)
	assert.Len(t, users.byID, 2)

	_, err = svc.ResolveFirebaseUser(ctx, "tok-bogus")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestResolveFirebaseUserWithoutEmail(t *testing.T) {
	verifier := &fakeVerifier{identities: map[string]*firebase.Identity{
		"tok-phone": {UID: "fb-phone", Name: "Phone Login"},
		"tok-anon":  {UID: "fb-anon"},
	}}
	users := newFakeUsers()
	svc := NewAccountService(users, verifier, "secret", nil)
	ctx := context.Background()

	phone, err := svc.ResolveFirebaseUser(ctx, "tok-phone")
	require.NoError(t, err)
	anon, err := svc.ResolveFirebaseUser(ctx, "tok-anon")
	require.NoError(t, err)

	assert.NotEqual(t, phone.ID, anon.ID)
	assert.Empty(t, phone.Email)
	assert.Empty(t, anon.Email)
	assert.Len(t, users.byID, 2)

	again, err := svc.ResolveFirebaseUser(ctx, "tok-anon")
	require.NoError(t, err)
	assert.Equal(t, anon.ID, again.ID)
}

func TestFirebaseLoginWithoutVerifier(t *testing.T) {
	svc := NewAccountService(newFakeUsers(), nil, "secret", nil)

	_, err := svc.FirebaseLogin(context.Background(), "anything")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.Contains(t, err.Error(), firebase.ErrNotConfigured.Error())
}

func TestFirebaseLoginIssuesToken(t *testing.T) {
	verifier := &fakeVerifier{identities: map[string]*firebase.Identity{
		"tok": {UID: "fb-1", Email: "drummer@example.com", Name: "Drummer"},
	}}
	svc := NewAccountService(newFakeUsers(), verifier, "secret", nil)

	sess, err := svc.FirebaseLogin(context.Background(), "tok")
	require.NoError(t, err)

	claims, err := session.ParseToken("secret", sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.UserID)
	assert.Equal(t, "drummer@example.com", claims.Email)
}
