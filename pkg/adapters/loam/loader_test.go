package loam

import (
	"context"
	"testing"

	"github.com/CodeQwQ/ucflow/internal/testutils"
	"github.com/CodeQwQ/ucflow/pkg/ports"
	"github.com/CodeQwQ/ucflow/pkg/usecase"
	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginDoc = `---
name: UserLogin
preconditions:
  - user is registered
main_flow:
  - kind: simple
    id: s1
    content: User enters credentials
    transaction: initiation
  - kind: resume_step
    id: r1
    target: s1
---
A registered user signs in.`

const uploadDoc = `---
main_flow:
  - kind: iterative
    id: l1
    condition: more chunks
    body:
      - kind: simple
        id: b1
---
Upload a file in chunks.`

func TestLoader_Contract(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	testutils.SeedDocuments(t, repo, map[string]string{
		"login.md":  loginDoc,
		"upload.md": uploadDoc,
	})

	loader := New(loam.NewTypedRepository[usecase.Document](repo))

	ports.RunUseCaseLoaderContract(t, loader, []string{"UserLogin", "upload"})
}

func TestLoader_DescriptionFromBody(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	testutils.SeedDocuments(t, repo, map[string]string{"login.md": loginDoc})
	loader := New(loam.NewTypedRepository[usecase.Document](repo))

	uc, err := loader.Load(context.Background(), "UserLogin")
	require.NoError(t, err)
	assert.Equal(t, "A registered user signs in.", uc.Description)
	assert.Equal(t, []string{"user is registered"}, uc.Preconditions)
	require.Len(t, uc.MainFlow, 2)
	assert.Equal(t, usecase.KindResumeStep, uc.MainFlow[1].Kind())
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "flows/login", trimExtension("flows/login.md"))
	assert.Equal(t, "login", trimExtension("login"))
}
