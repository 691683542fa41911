// Package errors provides structured errors for the xwing-api service.
//
// Every error carries a Code, a user-facing Message, an optional Cause and
// optional metadata. Codes map onto gRPC status codes so handlers can return
// them directly.
//
// # Usage
//
// Query and input problems are InvalidArgument. Their Message is shown to the
// chat user verbatim:
//
//	return errors.InvalidArgument("You need to specify a slot to search by points value.")
//
// Data problems found while building the card index are fatal:
//
//	return errors.DataLossf("duplicate ship found: %s", key).WithMeta("pilot", pilot.XWS)
//
// Wrapping keeps the code of the wrapped error:
//
//	if err := repo.Put(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to cache dataset")
//	}
//
// Handlers convert at the boundary:
//
//	return nil, errors.ToGRPCError(err)
//
// # Layers
//
//   - clients and repositories return NotFound / Unavailable / Internal
//   - the lookup engine returns InvalidArgument for bad queries and DataLoss
//     for inconsistent card data
//   - handlers convert to gRPC status, except InvalidArgument from a query,
//     which becomes the single reply line
package errors
