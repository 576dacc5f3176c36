// ABOUTME: Package documentation for the SDK facade
// ABOUTME: Shows the study-to-frame download flow
/*
Package cerebra is the client SDK for the Cerebra Health biosignal
platform.

A Client wraps authentication, the GraphQL metadata API and the chunk
download pipeline. The typical flow mirrors how the data is organised:
find a study, flatten its metadata, download channel data.

	client := cerebra.New(cerebra.Config{
		Auth: auth.NewSessionAuth(auth.SessionConfig{
			APIURL:   cerebra.DefaultAPIURL,
			Email:    email,
			Password: password,
		}),
	})
	if err := client.Connect(ctx); err != nil {
		// ...
	}

	study, err := client.StudyMetadata(ctx, studyID)
	rows := cerebra.MetadataRows(study)
	data, err := client.ChannelData(ctx, rows, from, to)

The returned frame has one row per sample time with the identity
columns first and one column per channel; see pkg/frame. Labels are
read with Labels, written with AddLabels, and streamed live with
StreamLabels.
*/
package cerebra
