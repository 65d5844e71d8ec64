package fitcooker

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/auth"
)

const sampleDraft = `title: Frango com arroz
description: Clássico do almoço.
preparation_time: 30
servings: 2
difficulty: Fácil
categories: [Almoço]
ingredients:
  - name: Peito de Frango
    quantity: 200
  - name: Arroz Branco
    quantity: 100
steps:
  - Tempere e grelhe o frango.
  - Sirva com arroz.
media:
  - kind: image
    source: https://example.com/capa.jpg
    main: true
`

// resetFlags restores every flag to its default between runs, since rootCmd
// and its flag variables are package globals.
// resetFlags restores every flag to its default between runs, since rootCmd
// and its flag variables are package globals.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"FITCOOKER_DB", "FITCOOKER_TOKEN", "FITCOOKER_SMTP_HOST", "FITCOOKER_LOG_LEVEL", "FITCOOKER_USDA_API_KEY"} {
		t.Setenv(key, "")
	}
	t.Setenv("FITCOOKER_JWT_SECRET", "test-secret")
}

func TestRootHelp(t *testing.T) {
	out, _, err := runCLI(t, "--help")
	if err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	if !strings.Contains(out, "fitcooker") {
		t.Fatalf("expected help output, got %q", out)
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "fitcooker.db")
	for i := 0; i < 2; i++ {
		out, _, err := runCLI(t, "--db", path, "init")
		if err != nil {
			t.Fatalf("init run %d failed: %v", i+1, err)
		}
		if !strings.Contains(out, "schema v") {
			t.Fatalf("unexpected init output %q", out)
		}
	}
}

func TestPublishFlow(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "fitcooker.db")
	draftPath := filepath.Join(dir, "receita.yaml")
	if err := os.WriteFile(draftPath, []byte(sampleDraft), 0o644); err != nil {
		t.Fatalf("write draft: %v", err)
	}

	out, _, err := runCLI(t, "--db", db, "draft", "check", draftPath)
	if err != nil {
		t.Fatalf("draft check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "[x] Título da receita") || !strings.Contains(out, "Ready to publish") {
		t.Fatalf("unexpected checklist %q", out)
	}

	out, _, err = runCLI(t, "--db", db, "draft", "totals", draftPath, "--json")
	if err != nil {
		t.Fatalf("draft totals: %v", err)
	}
	var totals struct {
		Totals     struct{ Calories, Protein float64 } `json:"totals"`
		PerServing *struct{ Calories float64 }        `json:"per_serving"`
	}
	if err := json.Unmarshal([]byte(out), &totals); err != nil {
		t.Fatalf("decode totals: %v\n%s", err, out)
	}
	if totals.Totals.Calories != 460 || totals.Totals.Protein != 64.7 || totals.PerServing == nil || totals.PerServing.Calories != 230 {
		t.Fatalf("unexpected totals %+v", totals)
	}

	_, _, err = runCLI(t, "--db", db, "recipe", "publish", draftPath)
	if err == nil || !strings.Contains(err.Error(), "sign in required") {
		t.Fatalf("expected sign in requirement, got %v", err)
	}

	token, _, err := runCLI(t, "auth", "token", "--user", "chef-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	token = strings.TrimSpace(token)

	out, _, err = runCLI(t, "--db", db, "recipe", "publish", draftPath, "--token", token)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !strings.Contains(out, "Receita publicada com sucesso!") || !strings.Contains(out, "Recipe id:") {
		t.Fatalf("unexpected publish output %q", out)
	}

	if _, _, err := runCLI(t, "--db", db, "draft", "check", draftPath); err == nil {
		t.Fatalf("expected draft file to be reset after publishing")
	}

	out, _, err = runCLI(t, "--db", db, "recipe", "list", "--author", "chef-1", "--json")
	if err != nil {
		t.Fatalf("recipe list: %v", err)
	}
	var recipes []struct {
		Title    string
		Calories float64
	}
	if err := json.Unmarshal([]byte(out), &recipes); err != nil {
		t.Fatalf("decode recipes: %v\n%s", err, out)
	}
	if len(recipes) != 1 || recipes[0].Title != "Frango com arroz" || recipes[0].Calories != 460 {
		t.Fatalf("unexpected recipes %+v", recipes)
	}

	out, _, err = runCLI(t, "--db", db, "recipe", "show", "frango com arroz")
	if err != nil {
		t.Fatalf("recipe show: %v", err)
	}
	if !strings.Contains(out, "1. Tempere e grelhe o frango.") || !strings.Contains(out, "(principal)") {
		t.Fatalf("unexpected recipe detail %q", out)
	}

	if _, _, err := runCLI(t, "--db", db, "doctor"); err != nil {
		t.Fatalf("doctor: %v", err)
	}
}

func TestDraftCheckReportsMissingItems(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "fitcooker.db")
	draftPath := filepath.Join(dir, "nova.yaml")

	if _, _, err := runCLI(t, "draft", "new", draftPath); err != nil {
		t.Fatalf("draft new: %v", err)
	}
	if _, _, err := runCLI(t, "draft", "new", draftPath); err == nil {
		t.Fatalf("expected existing file to be protected")
	}
	out, _, err := runCLI(t, "--db", db, "draft", "check", draftPath)
	if err == nil || !strings.Contains(err.Error(), "Título da receita") {
		t.Fatalf("expected missing title, got %v", err)
	}
	if !strings.Contains(out, "[ ] Imagem principal (opcional)") {
		t.Fatalf("expected informational item in checklist, got %q", out)
	}
}

func TestPublishChecksDraftBeforeToken(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "fitcooker.db")
	emptyPath := filepath.Join(dir, "vazia.yaml")
	readyPath := filepath.Join(dir, "pronta.yaml")

	if _, _, err := runCLI(t, "draft", "new", emptyPath); err != nil {
		t.Fatalf("draft new: %v", err)
	}
	if err := os.WriteFile(readyPath, []byte(sampleDraft), 0o644); err != nil {
		t.Fatalf("write draft: %v", err)
	}

	_, _, err := runCLI(t, "--db", db, "recipe", "publish", emptyPath, "--token", "not.a.jwt")
	if err == nil || !strings.HasPrefix(err.Error(), "missing: ") {
		t.Fatalf("expected missing items for an empty draft, got %v", err)
	}

	t.Setenv("FITCOOKER_JWT_SECRET", "")
	_, _, err = runCLI(t, "--db", db, "recipe", "publish", emptyPath, "--token", "not.a.jwt")
	if err == nil || !strings.HasPrefix(err.Error(), "missing: ") {
		t.Fatalf("expected missing items without a token secret, got %v", err)
	}
	t.Setenv("FITCOOKER_JWT_SECRET", "test-secret")

	_, _, err = runCLI(t, "--db", db, "recipe", "publish", readyPath, "--token", "not.a.jwt")
	if !errors.Is(err, auth.ErrInvalidToken) || !strings.Contains(err.Error(), "sign in required") {
		t.Fatalf("expected sign in requirement naming the bad token, got %v", err)
	}
	if _, _, err := runCLI(t, "--db", db, "draft", "check", readyPath); err != nil {
		t.Fatalf("expected draft file kept after rejected token: %v", err)
	}
}

func TestIngredientAddFromServing(t *testing.T) {
	isolateEnv(t)
	db := filepath.Join(t.TempDir(), "fitcooker.db")

	out, _, err := runCLI(t, "--db", db, "ingredient", "add", "--name", "Iogurte Grego", "--serving-size", "170", "--calories", "100", "--protein", "17", "--carbs", "6")
	if err != nil {
		t.Fatalf("ingredient add: %v", err)
	}
	if !strings.Contains(out, "58.8 kcal") {
		t.Fatalf("expected per-100 conversion, got %q", out)
	}

	out, _, err = runCLI(t, "--db", db, "ingredient", "search", "iogurte", "--json")
	if err != nil {
		t.Fatalf("ingredient search: %v", err)
	}
	if !strings.Contains(out, "Iogurte Grego") {
		t.Fatalf("expected search hit, got %q", out)
	}

	if _, _, err := runCLI(t, "--db", db, "ingredient", "import", "banana"); err == nil || !strings.Contains(err.Error(), "API key") {
		t.Fatalf("expected missing USDA key error, got %v", err)
	}
}

func TestCategorySuggestRecordsSuggestion(t *testing.T) {
	isolateEnv(t)
	db := filepath.Join(t.TempDir(), "fitcooker.db")

	out, _, err := runCLI(t, "--db", db, "category", "suggest", "Air Fryer")
	if err != nil {
		t.Fatalf("category suggest: %v", err)
	}
	if !strings.Contains(out, "Obrigado!") {
		t.Fatalf("unexpected suggest output %q", out)
	}
	out, _, err = runCLI(t, "--db", db, "category", "suggestions")
	if err != nil {
		t.Fatalf("list suggestions: %v", err)
	}
	if !strings.Contains(out, "Air Fryer") {
		t.Fatalf("expected suggestion listed, got %q", out)
	}
	if _, _, err := runCLI(t, "--db", db, "category", "approve", "1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	out, _, err = runCLI(t, "--db", db, "category", "list")
	if err != nil {
		t.Fatalf("category list: %v", err)
	}
	if !strings.Contains(out, "Air Fryer\tfalse") {
		t.Fatalf("expected approved category, got %q", out)
	}
}

func TestConfigSetAndGet(t *testing.T) {
	isolateEnv(t)
	db := filepath.Join(t.TempDir(), "fitcooker.db")

	if _, _, err := runCLI(t, "--db", db, "config", "set"); err == nil {
		t.Fatalf("expected error without flags")
	}
	if _, _, err := runCLI(t, "--db", db, "config", "set", "--main-image-policy", "sometimes"); err == nil {
		t.Fatalf("expected invalid policy error")
	}
	if _, _, err := runCLI(t, "--db", db, "config", "set", "--search-limit", "5", "--main-image-policy", "promote-first"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	out, _, err := runCLI(t, "--db", db, "config", "get")
	if err != nil {
		t.Fatalf("config get: %v", err)
	}
	if !strings.Contains(out, "main_image_policy\tpromote-first") || !strings.Contains(out, "search_limit\t5") {
		t.Fatalf("unexpected config output %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]string{"debug": "DEBUG", "INFO": "INFO", "error": "ERROR", "": "WARN", "loud": "WARN"} {
		if got := parseLogLevel(in).String(); got != want {
			t.Fatalf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
