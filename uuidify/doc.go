// Package uuidify provides a client for the uuidify identifier service.
//
// The service generates UUIDs (v1, v4, v7) and ULIDs on request. This package
// never generates identifiers locally; every call is one HTTP round trip.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client := uuidify.NewClient(uuidify.DefaultBaseURL, "", logger,
//		uuidify.WithTimeout(5*time.Second),
//	)
//
//	res, err := client.UUIDv4(ctx, 1)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.ID)
//
//	batch, err := client.UUIDv7(ctx, 3)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(batch.IDs)
//
// The requested count alone decides the result shape: 1 reads the singular
// envelope key into Result.ID, anything else reads the plural key into
// Result.IDs.
//
// # Error Handling
//
// Failures are never retried. Every classified failure matches ErrUuidify:
//
//   - ConnectionError: no HTTP response was obtained (DNS, refused, timeout, TLS)
//   - APIError: the service answered with a non-2xx status
//   - DecodeError: a 2xx body could not be parsed
//
//	var apiErr *uuidify.APIError
//	if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
//		// back off
//	}
//
// A well-formed envelope without the selected key yields ErrMissingKey.
package uuidify
