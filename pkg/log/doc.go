// Package log provides the structured Logger used across snverify.
//
// Loggers are passed explicitly or carried in a context:
//
//	conf, err := log.ConfigFromEnv()
//	if err != nil {
//	    return err
//	}
//	logger, err := log.NewZapLogger(conf)
//	if err != nil {
//	    return err
//	}
//	ctx = log.SetContextLogger(ctx, logger.WithName("verify"))
//
//	log.FromContext(ctx).Info("signature produced", "r", sig.R)
//
// Three implementations are provided: ZapLogger (console, logfmt or JSON via
// zap), NoopLogger, and Recorder, which keeps entries in memory for tests.
package log
