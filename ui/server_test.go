package ui

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"agroprod/adapters/tabular"
	"agroprod/app"
	"agroprod/internal/session"
	"agroprod/internal/testkit"
	"agroprod/ui/middleware"
)

const sampleCSV = `nome,prod,quant,area,rend_med,valor
A,soja,100,10,10000,50
A,milho,200,20,10000,40
B,soja,400,30,13333,90
C,feijão,10,0,0,5
`

type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newTestServer(t *testing.T, maxUploadBytes int64) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewStore[*app.Dataset]()
	analysis := app.NewAnalysisService(tabular.NewDataReader(nil), store, 5, nil)
	srv, err := NewServer(analysis, os.DirFS(".."), maxUploadBytes, nil)
	require.NoError(t, err)
	return srv.Handler()
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			c.cookies = []*http.Cookie{ck}
		}
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) upload(filename string, content []byte) *httptest.ResponseRecorder {
	c.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("dataset", filename)
	require.NoError(c.t, err)
	_, err = part.Write(content)
	require.NoError(c.t, err)
	require.NoError(c.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req)
}

func TestIndex_AwaitingUpload(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, 0)}

	rec := c.get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nenhum conjunto de dados carregado")
	require.Len(t, c.cookies, 1, "session cookie should be issued")
	assert.True(t, c.cookies[0].HttpOnly)
}

func TestUpload_RendersAnalysis(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, 0)}

	rec := c.upload("producao.csv", []byte(sampleCSV))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = c.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "producao.csv")
	assert.Contains(t, body, "Município com maior produção")
	assert.Contains(t, body, "400,00 t")
	assert.Contains(t, body, "indefinido", "zero-area product renders as undefined")
	assert.Contains(t, body, "/charts/produtividade")
	assert.Contains(t, body, "Sem valor definido")
	assert.Contains(t, body, `<option value="A" selected>`)
}

func TestUpload_ThreeRowScenarioIsProfiled(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, 0)}
	require.Equal(t, http.StatusSeeOther, c.upload("pam.csv", []byte(testkit.ScenarioCSV)).Code)

	body := c.get("/").Body.String()
	assert.Contains(t, body, "Perfil das colunas numéricas")
	assert.NotContains(t, body, `<td colspan="8">-</td>`)
	assert.Contains(t, body, "Correlação de Spearman entre colunas")
}

func TestIndex_SortParameter(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, 0)}
	c.upload("producao.csv", []byte(sampleCSV))

	body := c.get("/?ordem=area").Body.String()
	assert.Contains(t, body, "<strong>Área Média</strong>")
	// B has the largest mean area, so it leads the municipality table
	table := body[strings.Index(body, "Agregações por município"):]
	assert.Less(t, strings.Index(table, "<td>B</td>"), strings.Index(table, "<td>A</td>"))
}

func TestUpload_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		status   int
		message  string
	}{
		{"unsupported format", "dados.txt", sampleCSV, http.StatusUnsupportedMediaType, "Formato de arquivo não suportado"},
		{"missing column", "dados.csv", "nome,prod,quant,area,rend_med\nA,soja,1,1,1\n", http.StatusUnprocessableEntity, "Colunas obrigatórias ausentes: valor."},
		{"html without table", "dados.html", "<html><body><p>vazio</p></body></html>", http.StatusUnprocessableEntity, "Nenhuma tabela encontrada"},
		{"empty file", "dados.csv", "", http.StatusUnprocessableEntity, "O arquivo não contém cabeçalho."},
		{"header only", "dados.csv", "nome,prod,quant,area,rend_med,valor\n", http.StatusUnprocessableEntity, "não contém registros"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &client{t: t, handler: newTestServer(t, 0)}
			require.Equal(t, http.StatusSeeOther, c.upload("ok.csv", []byte(sampleCSV)).Code)

			rec := c.upload(tt.filename, []byte(tt.content))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)

			// a failed upload leaves the session awaiting a new file
			assert.Equal(t, http.StatusNotFound, c.get("/export.xlsx").Code)
		})
	}
}

func TestUpload_NoFile(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, 0)}

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
	rec := c.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Selecione um arquivo")
}

func TestUpload_TooLarge(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, 512)}

	big := sampleCSV + strings.Repeat("D,soja,1,1,1,1\n", 200)
	rec := c.upload("grande.csv", []byte(big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMunicipalityFragment(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, 0)}

	rec := c.get("/municipality?nome=A")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c.upload("producao.csv", []byte(sampleCSV))

	rec = c.get("/municipality?nome=A")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "milho")
	assert.NotContains(t, rec.Body.String(), "feijão")

	rec = c.get("/municipality?nome=Z")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nenhum registro encontrado")
}

func TestCharts(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, 0)}

	assert.Equal(t, http.StatusNotFound, c.get("/charts/area-media").Code)

	c.upload("producao.csv", []byte(sampleCSV))

	for _, kind := range []string{"area-media", "rendimento-medio", "top-valor", "produtividade", "eficiencia"} {
		rec := c.get("/charts/" + kind)
		require.Equal(t, http.StatusOK, rec.Code, kind)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "<svg")
	}

	assert.Equal(t, http.StatusNotFound, c.get("/charts/pizza").Code)
}

func TestExport(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, 0)}
	c.upload("producao.csv", []byte(sampleCSV))

	rec := c.get("/export.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "resumo_producao.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Municipios")
}

func TestReports(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, 0)}
	c.upload("producao.csv", []byte(sampleCSV))

	rec := c.get("/report")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Estatísticas Principais")
	assert.Contains(t, rec.Body.String(), "data:image/png;base64,")

	rec = c.get("/report.md")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# Análise de Produção Agrícola"))
}

func TestReset(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, 0)}
	c.upload("producao.csv", []byte(sampleCSV))
	require.Equal(t, http.StatusOK, c.get("/charts/top-valor").Code)

	rec := c.do(httptest.NewRequest(http.MethodPost, "/reset", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, http.StatusNotFound, c.get("/charts/top-valor").Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	handler := newTestServer(t, 0)
	alice := &client{t: t, handler: handler}
	bob := &client{t: t, handler: handler}

	alice.upload("producao.csv", []byte(sampleCSV))
	bob.get("/")

	assert.Equal(t, http.StatusOK, alice.get("/export.xlsx").Code)
	assert.Equal(t, http.StatusNotFound, bob.get("/export.xlsx").Code)
}

func TestMalformedSessionCookieIsReplaced(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, 0), cookies: []*http.Cookie{{Name: middleware.SessionCookie, Value: "../etc"}}}

	c.get("/")
	require.Len(t, c.cookies, 1)
	assert.NotEqual(t, "../etc", c.cookies[0].Value)
}

func TestHealth(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, 0)}
	rec := c.get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestStaticAssets(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, 0)}
	rec := c.get("/static/css/dashboard.css")
	assert.Equal(t, http.StatusOK, rec.Code)
}
