// Package testutil provides testing utilities for the whisper-web application.
//
// It contains two components:
//
// 1. Mock Transcriber (mock_transcriber.go):
//   - MockTranscriber: testify mock of api.Transcriber that also records the
//     uploaded bytes, filename and response format of every call
//
// 2. Test Data Fixtures (fixtures.go):
//   - WAVHeader: a minimal audio payload
//   - Sample OpenAI error bodies
//   - NewUploadRequest / NewFileUploadRequest: multipart request builders
//
// # Usage Examples
//
//	func TestTranscribe(t *testing.T) {
//	    transcriber := testutil.NewMockTranscriber(t)
//	    transcriber.On("Transcribe", mock.Anything, "sample.mp3", api.FormatText).
//	        Return("hello world", nil)
//
//	    req := testutil.NewFileUploadRequest(t, "/transcribe", "sample.mp3", testutil.WAVHeader)
//	    // serve req and assert on the recorder
//	    transcriber.AssertExpectations(t)
//	}
package testutil
