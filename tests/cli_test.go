package tests

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func buildFitcookerBinary(t *testing.T) string {
	t.Helper()
	repoRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("resolve repo root: %v", err)
	}
	binPath := filepath.Join(t.TempDir(), "fitcooker")
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = repoRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build fitcooker binary: %v\n%s", err, string(out))
	}
	return binPath
}

func runFitcooker(t *testing.T, binPath, dbPath string, env []string, args ...string) (string, string, int) {
	t.Helper()
	allArgs := append([]string{"--db", dbPath}, args...)
	cmd := exec.Command(binPath, allArgs...)
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), "FITCOOKER_TOKEN=", "FITCOOKER_SMTP_HOST=", "FITCOOKER_JWT_SECRET=integration-secret")
	cmd.Env = append(cmd.Env, env...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return stdout.String(), stderr.String(), 0
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("run fitcooker command: %v", err)
	}
	return stdout.String(), stderr.String(), exitErr.ExitCode()
}

func TestRecipeAuthoringFlow(t *testing.T) {
	binPath := buildFitcookerBinary(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "fitcooker.db")
	draftPath := filepath.Join(dir, "omelete.yaml")

	if _, stderr, exit := runFitcooker(t, binPath, dbPath, nil, "init"); exit != 0 {
		t.Fatalf("init failed: exit=%d stderr=%s", exit, stderr)
	}
	if _, stderr, exit := runFitcooker(t, binPath, dbPath, nil, "draft", "new", draftPath); exit != 0 {
		t.Fatalf("draft new failed: exit=%d stderr=%s", exit, stderr)
	}

	stdout, _, exit := runFitcooker(t, binPath, dbPath, nil, "draft", "check", draftPath)
	if exit == 0 {
		t.Fatalf("expected empty draft to fail the checklist")
	}
	if !strings.Contains(stdout, "[ ] Título da receita") {
		t.Fatalf("expected unchecked title, got %s", stdout)
	}

	doc := `title: Omelete de espinafre
preparation_time: 10
servings: 1
categories: [Café da manhã, Low Carb]
ingredients:
  - name: Ovo
    quantity: 150
  - name: Espinafre
    quantity: 30
steps:
  - Bata os ovos.
  - Junte o espinafre e cozinhe.
`
	if err := os.WriteFile(draftPath, []byte(doc), 0o644); err != nil {
		t.Fatalf("write draft: %v", err)
	}
	stdout, stderr, exit := runFitcooker(t, binPath, dbPath, nil, "draft", "totals", draftPath)
	if exit != 0 {
		t.Fatalf("draft totals failed: exit=%d stderr=%s", exit, stderr)
	}
	if !strings.Contains(stderr, `ingredient "Espinafre" is not in the catalog`) {
		t.Fatalf("expected custom ingredient note, got %s", stderr)
	}
	if !strings.Contains(stdout, "TOTAL\t\t215\t19\t1\t14") {
		t.Fatalf("unexpected totals output %s", stdout)
	}

	_, stderr, exit = runFitcooker(t, binPath, dbPath, nil, "recipe", "publish", draftPath)
	if exit == 0 || !strings.Contains(stderr, "sign in required") {
		t.Fatalf("expected sign in to be required: exit=%d stderr=%s", exit, stderr)
	}

	token, stderr, exit := runFitcooker(t, binPath, dbPath, nil, "auth", "token", "--user", "chef-9")
	if exit != 0 {
		t.Fatalf("auth token failed: exit=%d stderr=%s", exit, stderr)
	}
	env := []string{"FITCOOKER_TOKEN=" + strings.TrimSpace(token)}

	stdout, stderr, exit = runFitcooker(t, binPath, dbPath, env, "recipe", "publish", draftPath, "--keep-file")
	if exit != 0 {
		t.Fatalf("publish failed: exit=%d stderr=%s", exit, stderr)
	}
	if !strings.Contains(stdout, "Recipe id:") {
		t.Fatalf("expected recipe id, got %s", stdout)
	}

	stdout, _, exit = runFitcooker(t, binPath, dbPath, nil, "recipe", "list", "--author", "chef-9")
	if exit != 0 || !strings.Contains(stdout, "Omelete de espinafre") {
		t.Fatalf("expected published recipe in list: exit=%d out=%s", exit, stdout)
	}

	if _, stderr, exit := runFitcooker(t, binPath, dbPath, nil, "doctor"); exit != 0 {
		t.Fatalf("doctor failed: exit=%d stderr=%s", exit, stderr)
	}
}

func TestCLIRejectsTamperedToken(t *testing.T) {
	binPath := buildFitcookerBinary(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "fitcooker.db")

	_, stderr, exit := runFitcooker(t, binPath, dbPath, []string{"FITCOOKER_TOKEN=not.a.token"}, "auth", "whoami")
	if exit == 0 || !strings.Contains(stderr, "invalid token") {
		t.Fatalf("expected invalid token error: exit=%d stderr=%s", exit, stderr)
	}
}

func TestCLIRejectsNegativeMacros(t *testing.T) {
	binPath := buildFitcookerBinary(t)
	dbPath := filepath.Join(t.TempDir(), "fitcooker.db")

	_, stderr, exit := runFitcooker(t, binPath, dbPath, nil,
		"ingredient", "add",
		"--name", "x",
		"--calories", "-1",
	)
	if exit == 0 {
		t.Fatalf("expected non-zero exit for negative calories")
	}
	if !strings.Contains(stderr, "calories must be >= 0") {
		t.Fatalf("expected validation error in stderr, got: %s", stderr)
	}
}
