package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fedcatalog/source-admin/internal/plugin"
	"github.com/fedcatalog/source-admin/test-integration/source-admin/helpers"
)

const (
	remotePID  = "federated.source.http.remote"
	archivePID = "federated.source.file.archive"
)

var _ = Describe("Source availability", Label("availability"), func() {
	var (
		tempDir      string
		archiveDir   string
		remote       *httptest.Server
		remoteUp     atomic.Bool
		serverHelper *helpers.ServerTestHelper
	)

	writeConfig := func(catalogEnabled bool, extra string) string {
		return helpers.WriteConfigYAML(tempDir, fmt.Sprintf(`
catalog:
  enabled: %t
  pollInterval: 1h
  checkTimeout: 2s
  maxAttempts: 1
  statusDir: %s
sources:
  - id: remote
    type: http
    http: {endpoint: %q, pingPath: /ping}
  - id: archive
    type: file
    file: {path: %q}
%s`, catalogEnabled, filepath.Join(tempDir, "status"), remote.URL, archiveDir, extra))
	}

	BeforeEach(func() {
		tempDir = createTempDir("source-admin-test-")
		archiveDir = filepath.Join(tempDir, "archive")
		Expect(os.MkdirAll(archiveDir, 0o750)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(archiveDir, "entry.xml"), []byte("<entry/>"), 0o600)).To(Succeed())

		remoteUp.Store(true)
		remote = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if !remoteUp.Load() {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
	})

	AfterEach(func() {
		if serverHelper != nil {
			Expect(serverHelper.StopServer()).To(Succeed())
			serverHelper = nil
		}
		remote.Close()
		cleanupTempDir(tempDir)
	})

	start := func(configPath string, readyPath string) {
		var err error
		serverHelper, err = helpers.NewServerTestHelper(ctx, configPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(readyPath, 10*time.Second)
	}

	Context("with the catalog framework", func() {
		BeforeEach(func() {
			start(writeConfig(true, ""), "/readiness")
		})

		It("reports availability from the enterprise descriptors", func() {
			view, status, err := serverHelper.GetView(remotePID)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusOK))
			Expect(view.Data).To(HaveKeyWithValue(plugin.AvailableKey, true))

			resp, status, err := serverHelper.GetSources()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusOK))
			Expect(resp.Descriptors).To(HaveLen(3))
			Expect(resp.Descriptors[0].SourceID).To(Equal("local"))
		})

		It("follows the source after a refresh", func() {
			remoteUp.Store(false)

			resp, status, err := serverHelper.RefreshSources()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusOK))
			Expect(resp.Descriptors).To(ContainElement(HaveField("SourceID", "remote")))

			view, _, err := serverHelper.GetView(remotePID)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Data).To(HaveKeyWithValue(plugin.AvailableKey, false))

			archive, _, err := serverHelper.GetView(archivePID)
			Expect(err).NotTo(HaveOccurred())
			Expect(archive.Data).To(HaveKeyWithValue(plugin.AvailableKey, true))
		})

		It("persists the last known status", func() {
			Eventually(func() string {
				return filepath.Join(tempDir, "status", "remote", "status.json")
			}).Should(BeAnExistingFile())
		})
	})

	Context("without the catalog framework", func() {
		BeforeEach(func() {
			start(writeConfig(false, ""), "/health")
		})

		It("asks each source directly", func() {
			view, _, err := serverHelper.GetView(remotePID)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Data).To(HaveKeyWithValue(plugin.AvailableKey, true))

			remoteUp.Store(false)
			view, _, err = serverHelper.GetView(remotePID)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Data).To(HaveKeyWithValue(plugin.AvailableKey, false))
		})

		It("manages source configurations through the admin API", func() {
			spool := filepath.Join(tempDir, "spool")
			Expect(os.MkdirAll(spool, 0o750)).To(Succeed())

			created, status, err := serverHelper.CreateConfiguration("federated.source.file", map[string]any{
				"id":   "spool",
				"file": map[string]any{"path": spool},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusCreated))
			Expect(created.Data).To(HaveKeyWithValue(plugin.AvailableKey, true))

			status, err = serverHelper.DeleteConfiguration(created.PID)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusNoContent))

			_, status, err = serverHelper.GetView(created.PID)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusNotFound))
		})

		It("reports a non-source configuration without availability", func() {
			view, status, err := serverHelper.GetView(archivePID)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusOK))
			Expect(view.Data).To(HaveKey(plugin.AvailableKey))

			created, status, err := serverHelper.CreateConfiguration("org.example.logging", map[string]any{"level": "info"})
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusCreated))
			Expect(created.Data).To(BeEmpty())
		})

		It("reloads the configuration file", func() {
			writeConfig(false, `configurations:
  - pid: org.example.metrics
    properties: {interval: 30}
`)

			Eventually(func() int {
				_, status, _ := serverHelper.GetView("org.example.metrics")
				return status
			}, 10*time.Second, 100*time.Millisecond).Should(Equal(http.StatusOK))
		})
	})
})
