// Package testutil provides shared test doubles and fixtures.
//
//   - MockTranscriber (mock_transcriber.go): a configurable api.Transcriber that
//     records every call together with the bytes of the staged file.
//   - MockDocumentService (mock_services.go): a testify mock of the HTTP service layer.
//   - Fixtures (fixtures.go): generated WAV and MP3 payloads and sample transcripts.
//
// # Usage Examples
//
//	func TestPipeline(t *testing.T) {
//	    transcriber := testutil.NewMockTranscriber().
//	        SetResultForFile("hello.wav", api.Success("hello world"))
//	    path := testutil.HelloWAV(t)
//	    // ...
//	}
package testutil
