package scanning

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

const modelReply = `Here is the data: {"vendor": "Mercury Drug", "amount": 150.5}`

// decodeBody reads a JSON request body into a generic map
func decodeBody(r *http.Request) map[string]any {
	body, err := io.ReadAll(r.Body)
	Expect(err).NotTo(HaveOccurred())
	var payload map[string]any
	Expect(json.Unmarshal(body, &payload)).To(Succeed())
	return payload
}

var _ = Describe("Claude", func() {
	var (
		upstream *ghttp.Server
		scanner  *Claude
		reply    string
		err      error
	)

	BeforeEach(func() {
		upstream = ghttp.NewServer()
		scanner = NewClaude(ClaudeConfig{APIKey: "test-key", BaseURL: upstream.URL()})
	})

	AfterEach(func() {
		upstream.Close()
	})

	JustBeforeEach(func() {
		reply, err = scanner.Analyze(context.Background(), []byte("fake image data"), "image/jpeg")
	})

	When("the API answers with text", func() {
		var payload map[string]any

		BeforeEach(func() {
			upstream.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/v1/messages"),
				ghttp.VerifyHeaderKV("X-Api-Key", "test-key"),
				func(w http.ResponseWriter, r *http.Request) {
					payload = decodeBody(r)
				},
				ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
					"id":            "msg_01",
					"type":          "message",
					"role":          "assistant",
					"model":         defaultClaudeModel,
					"stop_reason":   "end_turn",
					"stop_sequence": nil,
					"content": []map[string]any{
						{"type": "text", "text": modelReply},
					},
					"usage": map[string]any{"input_tokens": 10, "output_tokens": 20},
				}),
			))
		})

		It("returns the reply verbatim", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(reply).To(Equal(modelReply))
		})

		It("sends the default model and token limit", func() {
			Expect(payload["model"]).To(Equal(defaultClaudeModel))
			Expect(payload["max_tokens"]).To(BeNumerically("==", defaultMaxTokens))
		})

		It("sends the prompt followed by the base64 image", func() {
			messages := payload["messages"].([]any)
			Expect(messages).To(HaveLen(1))
			content := messages[0].(map[string]any)["content"].([]any)
			Expect(content).To(HaveLen(2))
			Expect(content[0].(map[string]any)["text"]).To(Equal(ReceiptPrompt))

			source := content[1].(map[string]any)["source"].(map[string]any)
			Expect(source["type"]).To(Equal("base64"))
			Expect(source["media_type"]).To(Equal("image/jpeg"))
			Expect(source["data"]).To(Equal(EncodeImage([]byte("fake image data"))))
		})
	})

	When("the API rejects the credential", func() {
		BeforeEach(func() {
			upstream.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusUnauthorized, map[string]any{
				"type": "error",
				"error": map[string]any{
					"type":    "authentication_error",
					"message": "invalid x-api-key",
				},
			}))
		})

		It("returns an error after a single attempt", func() {
			Expect(err).To(MatchError(ContainSubstring("calling claude")))
			Expect(upstream.ReceivedRequests()).To(HaveLen(1))
		})
	})

	When("the reply has no text blocks", func() {
		BeforeEach(func() {
			upstream.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
				"id":          "msg_02",
				"type":        "message",
				"role":        "assistant",
				"model":       defaultClaudeModel,
				"stop_reason": "end_turn",
				"content":     []map[string]any{},
				"usage":       map[string]any{"input_tokens": 10, "output_tokens": 0},
			}))
		})

		It("returns ErrNoResponse", func() {
			Expect(err).To(MatchError(ErrNoResponse))
		})
	})
})

var _ = Describe("Ollama", func() {
	var upstream *ghttp.Server

	BeforeEach(func() {
		upstream = ghttp.NewServer()
	})

	AfterEach(func() {
		upstream.Close()
	})

	It("posts the prompt and image to /api/chat", func() {
		var payload map[string]any
		upstream.AppendHandlers(ghttp.CombineHandlers(
			ghttp.VerifyRequest(http.MethodPost, "/api/chat"),
			func(w http.ResponseWriter, r *http.Request) {
				payload = decodeBody(r)
			},
			ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
				"message": map[string]any{"role": "assistant", "content": modelReply},
				"done":    true,
			}),
		))

		reply, err := NewOllama(upstream.URL(), "llava").Analyze(context.Background(), []byte("png bytes"), "image/png")
		Expect(err).NotTo(HaveOccurred())
		Expect(reply).To(Equal(modelReply))

		Expect(payload["model"]).To(Equal("llava"))
		Expect(payload["stream"]).To(BeFalse())
		message := payload["messages"].([]any)[0].(map[string]any)
		Expect(message["content"]).To(Equal(ReceiptPrompt))
		Expect(message["images"]).To(ConsistOf(EncodeImage([]byte("png bytes"))))
	})

	It("surfaces non-200 responses", func() {
		upstream.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not loaded"))

		_, err := NewOllama(upstream.URL(), "llava").Analyze(context.Background(), []byte("png bytes"), "image/png")
		Expect(err).To(MatchError(ContainSubstring("status 500")))
		Expect(err).To(MatchError(ContainSubstring("model not loaded")))
	})
})

var _ = Describe("OpenAI", func() {
	var upstream *ghttp.Server

	BeforeEach(func() {
		upstream = ghttp.NewServer()
	})

	AfterEach(func() {
		upstream.Close()
	})

	It("requires an API key", func() {
		_, err := NewOpenAI("", upstream.URL(), "", 0)
		Expect(err).To(HaveOccurred())
	})

	It("sends the image as a data URI and returns the first choice", func() {
		var payload map[string]any
		upstream.AppendHandlers(ghttp.CombineHandlers(
			ghttp.VerifyRequest(http.MethodPost, "/chat/completions"),
			ghttp.VerifyHeaderKV("Authorization", "Bearer test-key"),
			func(w http.ResponseWriter, r *http.Request) {
				payload = decodeBody(r)
			},
			ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
				"id":      "chatcmpl-1",
				"object":  "chat.completion",
				"created": 1,
				"model":   "gpt-4o",
				"choices": []map[string]any{
					{
						"index":         0,
						"message":       map[string]any{"role": "assistant", "content": modelReply},
						"finish_reason": "stop",
					},
				},
			}),
		))

		scanner, err := NewOpenAI("test-key", upstream.URL(), "gpt-4o", 0)
		Expect(err).NotTo(HaveOccurred())

		reply, err := scanner.Analyze(context.Background(), []byte("png bytes"), "image/png")
		Expect(err).NotTo(HaveOccurred())
		Expect(reply).To(Equal(modelReply))

		content := payload["messages"].([]any)[0].(map[string]any)["content"].([]any)
		Expect(content).To(HaveLen(2))
		imageURL := content[1].(map[string]any)["image_url"].(map[string]any)
		Expect(imageURL["url"]).To(Equal("data:image/png;base64," + EncodeImage([]byte("png bytes"))))
	})
})

var _ = Describe("Gemini", func() {
	It("should require an API key", func() {
		scanner, err := NewGemini("", "gemini-2.5-pro")
		Expect(err).To(MatchError(ContainSubstring("api key is required")))
		Expect(scanner).To(BeNil())
	})

	It("should reject an image it cannot convert before calling the model", func() {
		scanner, err := NewGemini("test-key", "")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(scanner.Close)

		_, err = scanner.Analyze(context.Background(), []byte("not a jpeg"), "image/jpeg")
		Expect(err).To(MatchError(ContainSubstring("converting image to PNG")))
	})
})
